package generation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/blobstore"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/cache"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/docxfill"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/intent"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/petition"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/registry"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/verification"
)

func init() {
	if logger.Log == nil {
		if err := logger.Init("error"); err != nil {
			panic(err)
		}
	}
}

const structuredInput = "Иванов Иван Иванович|01.01.1990|серия 4510 номер 123456|г. Москва, ул. Тестовая 1|+79001234567|test@example.com|ч.1 ст.12.8 КоАП РФ|1|WITHOUT_POA"

type fakeSelector struct {
	path string
	err  error
	desc contract.TemplateDescriptor
}

func (f *fakeSelector) Select(desc contract.TemplateDescriptor) (string, error) {
	f.desc = desc
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}

type fakeFiller struct {
	record contract.FieldRecord
	count  int
}

func (f *fakeFiller) Fill(templatePath string, record contract.FieldRecord, outputPath string) (*docxfill.Output, error) {
	f.record = record
	return &docxfill.Output{
		Bytes:            []byte("filled document"),
		ReplacementCount: f.count,
	}, nil
}

type fakeConverter struct {
	calls int
}

func (f *fakeConverter) ToDocx(_ context.Context, inputPath, outDir string) (string, error) {
	f.calls++
	base := filepath.Base(inputPath)
	converted := filepath.Join(outDir, base+".docx")
	if err := os.WriteFile(converted, []byte("converted"), 0o644); err != nil {
		return "", err
	}
	return converted, nil
}

type fakeSender struct {
	documents int
	fail      bool
}

func (f *fakeSender) SendDocument(_ context.Context, _ int64, _ string, _ []byte, _ string) error {
	if f.fail {
		return errors.New("telegram unavailable")
	}
	f.documents++
	return nil
}

func (f *fakeSender) SendMessage(_ context.Context, _ int64, _ string) error {
	return nil
}

type testEnv struct {
	svc      *ServiceImpl
	registry *registry.MemoryRegistry
	selector *fakeSelector
	filler   *fakeFiller
	conv     *fakeConverter
	sender   *fakeSender
	codes    *verification.MemoryStore
}

func newTestEnv(t *testing.T, templateExt string) *testEnv {
	t.Helper()

	store, err := blobstore.NewFSStore(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		registry: registry.NewMemoryRegistry(),
		selector: &fakeSelector{path: filepath.Join(t.TempDir(), "template"+templateExt)},
		filler:   &fakeFiller{count: 12},
		conv:     &fakeConverter{},
		sender:   &fakeSender{},
		codes:    verification.NewMemoryStore(),
	}

	env.svc = &ServiceImpl{
		registry:  env.registry,
		selector:  env.selector,
		filler:    env.filler,
		converter: env.conv,
		store:     store,
		verifier:  verification.New(env.codes),
		sender:    env.sender,
		petitions: petition.NewBuilder(t.TempDir()),
		workDir:   t.TempDir(),
	}
	return env
}

func TestGenerateContractPipeline(t *testing.T) {
	env := newTestEnv(t, ".docx")

	res, err := env.svc.GenerateContract(context.Background(), &GenerateRequest{
		TelegramID: 100,
		FirstName:  "Иван",
		LastName:   "Иванов",
		Region:     "MOSCOW",
		CaseType:   "DUI",
		Input:      structuredInput,
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^AV-\d{8}-[0-9A-F]{8}$`), res.ContractNumber)
	assert.Equal(t, "docx", res.Format)
	assert.Equal(t, 12, res.ReplacementCount)
	assert.True(t, res.Delivered)
	assert.NotEmpty(t, res.VerificationCode)
	assert.Equal(t, 1, env.sender.documents)
	assert.Zero(t, env.conv.calls)

	// селектор получил параметры из записи
	assert.Equal(t, contract.RegionMoscow, env.selector.desc.Region)
	assert.Equal(t, "1", env.selector.desc.Instance)
	assert.Equal(t, contract.RepresentationWithoutPOA, env.selector.desc.Representation)

	// московский прайс: 1 инстанция без доверенности
	assert.Equal(t, int64(30000), res.Pricing.TotalAmount)
	assert.Equal(t, int64(15000), res.Pricing.Prepayment)

	// запись полей дошла до заполнителя
	assert.Equal(t, "Иванов Иван Иванович", env.filler.record.ClientFullName)
	assert.Equal(t, res.ContractNumber, env.filler.record.ContractNumber)

	// договор ждет кода подписания
	row, err := env.registry.ContractByNumber(res.ContractNumber)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusCodeSent, row.Status)
	assert.NotEmpty(t, row.FilePath)
}

func TestGenerateContractLegacyTemplate(t *testing.T) {
	env := newTestEnv(t, ".doc")

	_, err := env.svc.GenerateContract(context.Background(), &GenerateRequest{
		TelegramID: 100,
		Input:      structuredInput,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, env.conv.calls)
}

func TestGenerateContractResendToken(t *testing.T) {
	env := newTestEnv(t, ".docx")

	first, err := env.svc.GenerateContract(context.Background(), &GenerateRequest{
		TelegramID: 100,
		Input:      structuredInput,
	})
	require.NoError(t, err)

	for _, token := range []string{"RESEND", "repeat", " send_again "} {
		res, err := env.svc.GenerateContract(context.Background(), &GenerateRequest{
			TelegramID: 100,
			Input:      token,
		})
		require.NoError(t, err)
		assert.Equal(t, first.ContractNumber, res.ContractNumber)
		assert.True(t, res.Delivered)
	}
	assert.Equal(t, 4, env.sender.documents)

	// повторная отправка не трогает статус подписания
	row, err := env.registry.ContractByNumber(first.ContractNumber)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusCodeSent, row.Status)
}

func TestGenerateContractResendWithoutContract(t *testing.T) {
	env := newTestEnv(t, ".docx")

	_, err := env.svc.GenerateContract(context.Background(), &GenerateRequest{
		TelegramID: 200,
		Input:      "RESEND",
	})
	assert.ErrorIs(t, err, contract.ErrContractNotFound)
}

func TestGenerateContractConversionCached(t *testing.T) {
	env := newTestEnv(t, ".doc")
	env.svc.converted = cache.New(time.Minute)

	for i := 0; i < 3; i++ {
		_, err := env.svc.GenerateContract(context.Background(), &GenerateRequest{
			TelegramID: 100,
			Input:      structuredInput,
		})
		require.NoError(t, err)
	}

	// конвертер отработал один раз, дальше шаблон берется из кэша
	assert.Equal(t, 1, env.conv.calls)
}

func TestGenerateContractTemplateNotFound(t *testing.T) {
	env := newTestEnv(t, ".docx")
	env.selector.err = contract.ErrTemplateNotFound

	_, err := env.svc.GenerateContract(context.Background(), &GenerateRequest{
		TelegramID: 100,
		Input:      structuredInput,
	})
	assert.ErrorIs(t, err, contract.ErrTemplateNotFound)
}

func TestGenerateContractDeliveryFailureIsNonFatal(t *testing.T) {
	env := newTestEnv(t, ".docx")
	env.sender.fail = true

	res, err := env.svc.GenerateContract(context.Background(), &GenerateRequest{
		TelegramID: 100,
		Input:      structuredInput,
	})
	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.Empty(t, res.VerificationCode)
	assert.Contains(t, res.Warnings, "не удалось доставить договор в чат")

	// без доставки договор остается в DRAFT
	row, err := env.registry.ContractByNumber(res.ContractNumber)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusDraft, row.Status)
}

func TestVerifyCodeSignsContract(t *testing.T) {
	env := newTestEnv(t, ".docx")

	res, err := env.svc.GenerateContract(context.Background(), &GenerateRequest{
		TelegramID: 100,
		Input:      structuredInput,
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.VerifyCode(context.Background(), res.ContractNumber, res.VerificationCode))

	row, err := env.registry.ContractByNumber(res.ContractNumber)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusSigned, row.Status)

	// подписанный договор нельзя подписать повторно
	err = env.svc.VerifyCode(context.Background(), res.ContractNumber, res.VerificationCode)
	assert.ErrorIs(t, err, contract.ErrInvalidTransition)
}

func TestVerifyCodeMismatchKeepsState(t *testing.T) {
	env := newTestEnv(t, ".docx")

	res, err := env.svc.GenerateContract(context.Background(), &GenerateRequest{
		TelegramID: 100,
		Input:      structuredInput,
	})
	require.NoError(t, err)

	wrong := "000000"
	if res.VerificationCode == wrong {
		wrong = "000001"
	}
	err = env.svc.VerifyCode(context.Background(), res.ContractNumber, wrong)
	assert.ErrorIs(t, err, contract.ErrCodeMismatch)

	row, err := env.registry.ContractByNumber(res.ContractNumber)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusCodeSent, row.Status)
}

func TestVerifyCodeUnknownContract(t *testing.T) {
	env := newTestEnv(t, ".docx")
	err := env.svc.VerifyCode(context.Background(), "AV-00000000-MISSING1", "123456")
	assert.ErrorIs(t, err, contract.ErrContractNotFound)
}

func TestResendCodeInvalidatesPrevious(t *testing.T) {
	env := newTestEnv(t, ".docx")

	res, err := env.svc.GenerateContract(context.Background(), &GenerateRequest{
		TelegramID: 100,
		Input:      structuredInput,
	})
	require.NoError(t, err)

	newCode, err := env.svc.ResendCode(context.Background(), res.ContractNumber)
	require.NoError(t, err)

	if newCode != res.VerificationCode {
		err = env.svc.VerifyCode(context.Background(), res.ContractNumber, res.VerificationCode)
		assert.ErrorIs(t, err, contract.ErrCodeMismatch)
	}
	require.NoError(t, env.svc.VerifyCode(context.Background(), res.ContractNumber, newCode))
}

func TestResendCodeForSignedContract(t *testing.T) {
	env := newTestEnv(t, ".docx")

	res, err := env.svc.GenerateContract(context.Background(), &GenerateRequest{
		TelegramID: 100,
		Input:      structuredInput,
	})
	require.NoError(t, err)
	require.NoError(t, env.svc.VerifyCode(context.Background(), res.ContractNumber, res.VerificationCode))

	_, err = env.svc.ResendCode(context.Background(), res.ContractNumber)
	assert.ErrorIs(t, err, contract.ErrInvalidTransition)
}

func TestResendCodeForDraftContractLeavesNoCode(t *testing.T) {
	env := newTestEnv(t, ".docx")

	leadID, err := env.registry.UpsertLead(registry.Lead{TelegramID: 300})
	require.NoError(t, err)
	_, err = env.registry.CreateContract(leadID, "AV-20250101-AAAA1111", 30000)
	require.NoError(t, err)

	_, err = env.svc.ResendCode(context.Background(), "AV-20250101-AAAA1111")
	require.ErrorIs(t, err, contract.ErrInvalidTransition)

	// неудачный повтор не должен выдать код
	code, err := env.codes.Get("AV-20250101-AAAA1111")
	require.NoError(t, err)
	assert.Empty(t, code)

	row, err := env.registry.ContractByNumber("AV-20250101-AAAA1111")
	require.NoError(t, err)
	assert.Equal(t, contract.StatusDraft, row.Status)
}

func TestVerifyCodeForDraftContractKeepsCode(t *testing.T) {
	env := newTestEnv(t, ".docx")

	leadID, err := env.registry.UpsertLead(registry.Lead{TelegramID: 301})
	require.NoError(t, err)
	_, err = env.registry.CreateContract(leadID, "AV-20250101-BBBB2222", 30000)
	require.NoError(t, err)
	require.NoError(t, env.codes.Set("AV-20250101-BBBB2222", "123456", time.Minute))

	err = env.svc.VerifyCode(context.Background(), "AV-20250101-BBBB2222", "123456")
	require.ErrorIs(t, err, contract.ErrInvalidTransition)

	// код не расходуется, если договор нельзя подписать
	code, err := env.codes.Get("AV-20250101-BBBB2222")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)
}

func TestGenerateContractWritesBackContacts(t *testing.T) {
	env := newTestEnv(t, ".docx")

	_, err := env.svc.GenerateContract(context.Background(), &GenerateRequest{
		TelegramID: 100,
		Input:      "Тел. 8-900-123-45-67, почта client@mail.ru, адрес: г. Казань ул. Ленина 5",
	})
	require.NoError(t, err)

	lead, err := env.registry.LeadByTelegramID(100)
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, "8-900-123-45-67", lead.Phone)
	assert.Equal(t, "client@mail.ru", lead.Email)
}

func TestRouteMessage(t *testing.T) {
	env := newTestEnv(t, ".docx")

	assert.Equal(t, intent.IntentVerification, env.svc.RouteMessage("123456"))
	assert.Equal(t, intent.IntentContract, env.svc.RouteMessage("готов подписать договор"))
	assert.Equal(t, intent.IntentIntake, env.svc.RouteMessage("здравствуйте"))
}

func TestConverterHealthWithoutPDFClient(t *testing.T) {
	env := newTestEnv(t, ".docx")
	assert.True(t, env.svc.IsConverterHealthy())
}
