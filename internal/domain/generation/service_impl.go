package generation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/cache"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/circuitbreaker"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/convert"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/delivery"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/docxfill"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/extract"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/gotenberg"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/intent"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/metrics"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/petition"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/pricing"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/registry"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/templates"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/tracing"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/verification"
)

// TemplateSelector разрешает дескриптор в путь к файлу шаблона
type TemplateSelector interface {
	Select(desc contract.TemplateDescriptor) (string, error)
}

// DocumentFiller заполняет шаблон значениями записи
type DocumentFiller interface {
	Fill(templatePath string, record contract.FieldRecord, outputPath string) (*docxfill.Output, error)
}

// LegacyConverter нормализует устаревшие .doc файлы в .docx
type LegacyConverter interface {
	ToDocx(ctx context.Context, inputPath, outDir string) (string, error)
}

// PDFConverter конвертирует готовый DOCX в PDF
type PDFConverter interface {
	ConvertDocxToPDF(ctx context.Context, docxPath string) ([]byte, error)
	State() circuitbreaker.State
	IsHealthy() bool
}

// BlobStore хранилище готовых документов
type BlobStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
	Load(ctx context.Context, filename string) ([]byte, error)
}

// ServiceImpl реализация конвейера генерации договоров
type ServiceImpl struct {
	registry  Registry
	selector  TemplateSelector
	filler    DocumentFiller
	converter LegacyConverter
	pdfClient PDFConverter
	store     BlobStore
	verifier  *verification.Service
	sender    delivery.Sender
	petitions *petition.Builder
	converted *cache.Cache
	workDir   string
}

// Config зависимости конвейера. Sender и PDFClient опциональны:
// без них генерация работает, доставка и PDF пропускаются.
type Config struct {
	Registry     Registry
	TemplatesDir string
	WorkDir      string
	Store        BlobStore
	Verifier     *verification.Service
	Sender       delivery.Sender
	GotenbergURL string
	Converter    LegacyConverter
}

// NewService собирает конвейер генерации
func NewService(cfg Config) *ServiceImpl {
	conv := cfg.Converter
	if conv == nil {
		conv = convert.NewLibreOffice()
	}

	var pdfClient PDFConverter
	if cfg.GotenbergURL != "" {
		pdfClient = gotenberg.NewClientWithRetryAndCircuitBreaker(cfg.GotenbergURL)
	}

	return &ServiceImpl{
		registry:  cfg.Registry,
		selector:  templates.New(cfg.TemplatesDir),
		filler:    docxfill.New(),
		converter: conv,
		pdfClient: pdfClient,
		store:     cfg.Store,
		verifier:  cfg.Verifier,
		sender:    cfg.Sender,
		petitions: petition.NewBuilder(filepath.Join(cfg.WorkDir, "petitions")),
		converted: cache.New(30 * time.Minute),
		workDir:   cfg.WorkDir,
	}
}

// GenerateContract прогоняет полный конвейер генерации.
// Повтор запроса безопасен: каждый вызов создает новый договор с
// новым номером, документы не редактируются на месте.
func (s *ServiceImpl) GenerateContract(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	ctx, span := tracing.StartSpan(ctx, "generation.GenerateContract")
	defer span.End()

	start := time.Now()
	log := logger.Log.With(zap.Int64("telegram_id", req.TelegramID))
	metrics.ContractGenerationTotal.WithLabelValues("started").Inc()

	leadID, known, err := s.resolveLead(req)
	if err != nil {
		metrics.ContractGenerationTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	// токен повтора: клиент просит прислать уже сформированный договор
	if isResendToken(req.Input) {
		return s.redeliverLatest(ctx, leadID, req.TelegramID)
	}

	parsed, err := extract.Parse(req.Input, known)
	if err != nil {
		metrics.ContractGenerationTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("parse contract fields: %w", err)
	}
	record := parsed.Record

	// впервые обнаруженные контакты дописываются в карточку клиента
	if parsed.Updates.Phone != "" || parsed.Updates.Email != "" {
		if err := s.registry.UpdateLeadContact(leadID, parsed.Updates.Phone, parsed.Updates.Email); err != nil {
			log.Warn("failed to write back lead contact", zap.Error(err))
		}
	}

	region := normalizeRegion(req.Region)
	caseType := req.CaseType
	if caseType == "" {
		caseType = known.CaseType
	}
	if caseType == "" {
		caseType = "OTHER"
	}

	templatePath, err := s.selector.Select(contract.TemplateDescriptor{
		CaseType:       caseType,
		Instance:       record.Instance,
		Representation: record.Representation,
		Region:         region,
	})
	if err != nil {
		metrics.ContractGenerationTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	baseCost := pricing.BaseCost(region, record.Representation, record.Instance)
	record.Pricing = pricing.Apply(record.Pricing, baseCost)
	record.ContractNumber = generateContractNumber()

	log.Info("contract parameters resolved",
		zap.String("contract_number", record.ContractNumber),
		zap.String("case_type", caseType),
		zap.String("region", region),
		zap.String("instance", record.Instance),
		zap.String("representation", record.Representation),
		zap.String("template", filepath.Base(templatePath)),
	)

	if _, err := s.registry.CreateContract(leadID, record.ContractNumber, record.Pricing.TotalAmount); err != nil {
		metrics.ContractGenerationTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	fillPath, err := s.normalizeTemplate(ctx, templatePath)
	if err != nil {
		metrics.ContractGenerationTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	filename := fmt.Sprintf("contract_%s.docx", record.ContractNumber)
	outputPath := filepath.Join(s.workDir, "generated", filename)

	filled, err := s.filler.Fill(fillPath, record, outputPath)
	if err != nil {
		metrics.ContractGenerationTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fill template: %w", err)
	}

	storagePath, err := s.store.Save(ctx, filename, filled.Bytes)
	if err != nil {
		metrics.ContractGenerationTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("persist contract: %w", err)
	}
	if err := s.registry.SetContractFile(record.ContractNumber, storagePath, "docx"); err != nil {
		metrics.ContractGenerationTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	result := &GenerateResult{
		ContractNumber:   record.ContractNumber,
		Filename:         filename,
		Format:           "docx",
		StoragePath:      storagePath,
		Pricing:          record.Pricing,
		ReplacementCount: filled.ReplacementCount,
		Warnings:         append(parsed.Warnings, filled.Warnings...),
	}

	// PDF не критичен для выдачи: при сбое конвертера договор уходит в DOCX
	if req.WithPDF && s.pdfClient != nil {
		if pdfBytes, pdfErr := s.pdfClient.ConvertDocxToPDF(ctx, outputPath); pdfErr != nil {
			log.Warn("pdf conversion failed, delivering docx", zap.Error(pdfErr))
			result.Warnings = append(result.Warnings, "конвертация в PDF недоступна, договор отправлен в DOCX")
		} else {
			pdfName := fmt.Sprintf("contract_%s.pdf", record.ContractNumber)
			if _, err := s.store.Save(ctx, pdfName, pdfBytes); err != nil {
				log.Warn("failed to persist pdf", zap.Error(err))
			} else {
				metrics.DocumentFileSizeBytes.WithLabelValues("pdf").Observe(float64(len(pdfBytes)))
			}
		}
	}

	if s.sender != nil && req.TelegramID != 0 {
		caption := delivery.ContractCaption(record.ContractNumber)
		if err := s.sender.SendDocument(ctx, req.TelegramID, filename, filled.Bytes, caption); err != nil {
			log.Warn("contract delivery failed", zap.Error(err))
			result.Warnings = append(result.Warnings, "не удалось доставить договор в чат")
		} else {
			result.Delivered = true
			if err := s.registry.UpdateContractStatus(record.ContractNumber, contract.StatusSent); err != nil {
				log.Warn("status update failed", zap.Error(err))
			}
		}
	}

	if s.verifier != nil && result.Delivered {
		code, err := s.verifier.Issue(record.ContractNumber)
		if err != nil {
			log.Warn("verification code issue failed", zap.Error(err))
		} else {
			result.VerificationCode = code
			if err := s.registry.UpdateContractStatus(record.ContractNumber, contract.StatusCodeSent); err != nil {
				log.Warn("status update failed", zap.Error(err))
			}
		}
	}

	duration := time.Since(start)
	metrics.ContractGenerationTotal.WithLabelValues("success").Inc()
	metrics.ContractGenerationDuration.WithLabelValues(filepath.Base(templatePath)).Observe(duration.Seconds())
	metrics.DocumentFileSizeBytes.WithLabelValues("docx").Observe(float64(len(filled.Bytes)))

	log.Info("contract generated",
		zap.String("contract_number", record.ContractNumber),
		zap.Int("replacements", filled.ReplacementCount),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", duration),
	)
	return result, nil
}

// VerifyCode проверяет код подписания. Успех расходует код и переводит
// договор в SIGNED; любая неудача оставляет код и договор нетронутыми.
func (s *ServiceImpl) VerifyCode(ctx context.Context, contractNumber, code string) error {
	_, span := tracing.StartSpan(ctx, "generation.VerifyCode")
	defer span.End()

	row, err := s.registry.ContractByNumber(contractNumber)
	if err != nil {
		return err
	}
	// переход проверяется до обращения к хранилищу кодов:
	// неподписываемый договор не должен расходовать код
	if !contract.CanTransition(row.Status, contract.StatusSigned) {
		return fmt.Errorf("%w: %s -> %s", contract.ErrInvalidTransition, row.Status, contract.StatusSigned)
	}
	if err := s.verifier.Verify(contractNumber, code); err != nil {
		return err
	}
	return s.registry.UpdateContractStatus(contractNumber, contract.StatusSigned)
}

// ResendCode выдает новый код для договора. Прежний код перестает
// действовать в момент выдачи нового.
func (s *ServiceImpl) ResendCode(ctx context.Context, contractNumber string) (string, error) {
	_, span := tracing.StartSpan(ctx, "generation.ResendCode")
	defer span.End()

	row, err := s.registry.ContractByNumber(contractNumber)
	if err != nil {
		return "", err
	}
	// недопустимый переход отсекается до выдачи: неудачный повтор
	// не должен оставить живой код и погасить предыдущий
	if !contract.CanTransition(row.Status, contract.StatusCodeSent) {
		return "", fmt.Errorf("%w: %s -> %s", contract.ErrInvalidTransition, row.Status, contract.StatusCodeSent)
	}

	code, err := s.verifier.Issue(contractNumber)
	if err != nil {
		return "", err
	}
	if row.Status != contract.StatusCodeSent {
		if err := s.registry.UpdateContractStatus(contractNumber, contract.StatusCodeSent); err != nil {
			return "", err
		}
	}
	return code, nil
}

// GeneratePetition собирает ходатайство в DOCX
func (s *ServiceImpl) GeneratePetition(ctx context.Context, req *PetitionRequest) (*PetitionResult, error) {
	_, span := tracing.StartSpan(ctx, "generation.GeneratePetition")
	defer span.End()

	path, err := s.petitions.Generate(req.Text, req.ClientName)
	if err != nil {
		return nil, err
	}
	return &PetitionResult{Path: path}, nil
}

// RouteMessage определяет назначение входящего сообщения
func (s *ServiceImpl) RouteMessage(message string) intent.Intent {
	return intent.Route(message)
}

// ConverterState возвращает состояние circuit breaker конвертера PDF
func (s *ServiceImpl) ConverterState() circuitbreaker.State {
	if s.pdfClient == nil {
		return circuitbreaker.StateClosed
	}
	return s.pdfClient.State()
}

// IsConverterHealthy сообщает, доступен ли конвертер PDF
func (s *ServiceImpl) IsConverterHealthy() bool {
	if s.pdfClient == nil {
		return true
	}
	return s.pdfClient.IsHealthy()
}

// resolveLead находит или создает карточку клиента и возвращает
// известные данные для дозаполнения записи
func (s *ServiceImpl) resolveLead(req *GenerateRequest) (int64, extract.Known, error) {
	lead, err := s.registry.LeadByTelegramID(req.TelegramID)
	if err != nil {
		return 0, extract.Known{}, err
	}
	if lead == nil {
		id, err := s.registry.UpsertLead(registry.Lead{
			TelegramID: req.TelegramID,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Region:     normalizeRegion(req.Region),
			CaseType:   req.CaseType,
		})
		if err != nil {
			return 0, extract.Known{}, err
		}
		return id, extract.Known{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			CaseType:  req.CaseType,
		}, nil
	}

	return lead.ID, extract.Known{
		FirstName:       lead.FirstName,
		LastName:        lead.LastName,
		Phone:           lead.Phone,
		Email:           lead.Email,
		CaseType:        lead.CaseType,
		CaseDescription: lead.CaseDescription,
	}, nil
}

var resendTokens = map[string]struct{}{
	"RESEND":     {},
	"REPEAT":     {},
	"SEND_AGAIN": {},
}

func isResendToken(input string) bool {
	_, ok := resendTokens[strings.ToUpper(strings.TrimSpace(input))]
	return ok
}

// redeliverLatest повторно отправляет последний договор клиента.
// Новый договор не создается, статус не откатывается.
func (s *ServiceImpl) redeliverLatest(ctx context.Context, leadID, telegramID int64) (*GenerateResult, error) {
	row, err := s.registry.LatestContractByLead(leadID)
	if err != nil {
		return nil, err
	}
	if row.FilePath == "" {
		return nil, contract.ErrContractNotFound
	}

	filename := filepath.Base(row.FilePath)
	data, err := s.store.Load(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("load contract file: %w", err)
	}

	result := &GenerateResult{
		ContractNumber: row.Number,
		Filename:       filename,
		Format:         row.FileFormat,
		StoragePath:    row.FilePath,
	}

	if s.sender == nil || telegramID == 0 {
		result.Warnings = append(result.Warnings, "не удалось доставить договор в чат")
		return result, nil
	}
	if err := s.sender.SendDocument(ctx, telegramID, filename, data, delivery.ContractCaption(row.Number)); err != nil {
		logger.Warn("contract redelivery failed",
			zap.String("contract_number", row.Number),
			zap.Error(err),
		)
		result.Warnings = append(result.Warnings, "не удалось доставить договор в чат")
		return result, nil
	}
	result.Delivered = true

	logger.Info("contract redelivered",
		zap.String("contract_number", row.Number),
		zap.Int64("telegram_id", telegramID),
	)
	return result, nil
}

// normalizeTemplate приводит шаблон к формату, пригодному для прямой
// замены текста. Устаревший .doc нормализуется внешним конвертером,
// результат кэшируется: один шаблон обслуживает много договоров.
func (s *ServiceImpl) normalizeTemplate(ctx context.Context, templatePath string) (string, error) {
	if strings.ToLower(filepath.Ext(templatePath)) != ".doc" {
		return templatePath, nil
	}

	if s.converted != nil {
		if cached, err := s.converted.Get(ctx, templatePath); err == nil {
			converted := string(cached)
			if _, statErr := os.Stat(converted); statErr == nil {
				return converted, nil
			}
			s.converted.Delete(templatePath)
		}
	}

	outDir := filepath.Join(s.workDir, "converted")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create conversion dir: %w", err)
	}

	converted, err := s.converter.ToDocx(ctx, templatePath, outDir)
	if err != nil {
		return "", err
	}
	if s.converted != nil {
		s.converted.Set(templatePath, []byte(converted))
	}
	return converted, nil
}

func normalizeRegion(raw string) string {
	if strings.ToUpper(strings.TrimSpace(raw)) == contract.RegionMoscow {
		return contract.RegionMoscow
	}
	return contract.RegionRegions
}

func generateContractNumber() string {
	date := time.Now().Format("20060102")
	unique := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("AV-%s-%s", date, unique)
}
