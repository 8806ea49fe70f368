package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
)

// Lead карточка клиента, накопленная из переписки
type Lead struct {
	ID              int64
	TelegramID      int64
	FirstName       string
	LastName        string
	Phone           string
	Email           string
	Region          string
	CaseType        string
	CaseDescription string
}

// ContractRow строка реестра договоров
type ContractRow struct {
	ID          int64
	LeadID      int64
	Number      string
	Status      contract.Status
	FilePath    string
	FileFormat  string
	TotalAmount int64
	CreatedAt   time.Time
}

// PostgresRegistry реестр клиентов и договоров в PostgreSQL
type PostgresRegistry struct {
	db *sql.DB
}

// NewPostgresRegistry открывает подключение и инициализирует схему
func NewPostgresRegistry(host, port, dbname, user, password string) (*PostgresRegistry, error) {
	connStr := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &PostgresRegistry{db: db}
	if err := r.InitSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return r, nil
}

// InitSchema инициализирует схему базы данных
func (r *PostgresRegistry) InitSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS leads (
			id BIGSERIAL PRIMARY KEY,
			telegram_id BIGINT UNIQUE NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT 'REGIONS',
			case_type TEXT NOT NULL DEFAULT 'OTHER',
			case_description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS contracts (
			id BIGSERIAL PRIMARY KEY,
			lead_id BIGINT NOT NULL REFERENCES leads(id),
			contract_number TEXT UNIQUE NOT NULL,
			status TEXT NOT NULL DEFAULT 'DRAFT',
			file_path TEXT NOT NULL DEFAULT '',
			file_format TEXT NOT NULL DEFAULT '',
			total_amount BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_contracts_lead_created
			ON contracts (lead_id, created_at DESC);
	`)
	return err
}

// UpsertLead создает или обновляет карточку клиента по telegram_id
func (r *PostgresRegistry) UpsertLead(lead Lead) (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO leads (telegram_id, first_name, last_name, phone, email, region, case_type, case_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (telegram_id) DO UPDATE SET
			first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), leads.first_name),
			last_name = COALESCE(NULLIF(EXCLUDED.last_name, ''), leads.last_name),
			phone = COALESCE(NULLIF(EXCLUDED.phone, ''), leads.phone),
			email = COALESCE(NULLIF(EXCLUDED.email, ''), leads.email),
			region = COALESCE(NULLIF(EXCLUDED.region, ''), leads.region),
			case_type = COALESCE(NULLIF(EXCLUDED.case_type, ''), leads.case_type),
			case_description = COALESCE(NULLIF(EXCLUDED.case_description, ''), leads.case_description)
		RETURNING id`,
		lead.TelegramID, lead.FirstName, lead.LastName, lead.Phone, lead.Email,
		lead.Region, lead.CaseType, lead.CaseDescription,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert lead: %w", err)
	}
	return id, nil
}

// LeadByTelegramID возвращает карточку клиента
func (r *PostgresRegistry) LeadByTelegramID(telegramID int64) (*Lead, error) {
	lead := Lead{}
	err := r.db.QueryRow(`
		SELECT id, telegram_id, first_name, last_name, phone, email, region, case_type, case_description
		FROM leads WHERE telegram_id = $1`, telegramID,
	).Scan(&lead.ID, &lead.TelegramID, &lead.FirstName, &lead.LastName,
		&lead.Phone, &lead.Email, &lead.Region, &lead.CaseType, &lead.CaseDescription)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load lead: %w", err)
	}
	return &lead, nil
}

// UpdateLeadContact дописывает впервые обнаруженные контакты клиента,
// уже заполненные значения не перетираются
func (r *PostgresRegistry) UpdateLeadContact(leadID int64, phone, email string) error {
	_, err := r.db.Exec(`
		UPDATE leads SET
			phone = CASE WHEN phone = '' AND $2 <> '' THEN $2 ELSE phone END,
			email = CASE WHEN email = '' AND $3 <> '' THEN $3 ELSE email END
		WHERE id = $1`, leadID, phone, email)
	if err != nil {
		return fmt.Errorf("update lead contact: %w", err)
	}
	return nil
}

// CreateContract регистрирует новый договор в статусе DRAFT
func (r *PostgresRegistry) CreateContract(leadID int64, number string, totalAmount int64) (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO contracts (lead_id, contract_number, status, total_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		leadID, number, contract.StatusDraft, totalAmount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create contract: %w", err)
	}
	return id, nil
}

// ContractByNumber возвращает строку реестра по номеру договора
func (r *PostgresRegistry) ContractByNumber(number string) (*ContractRow, error) {
	row := ContractRow{}
	err := r.db.QueryRow(`
		SELECT id, lead_id, contract_number, status, file_path, file_format, total_amount, created_at
		FROM contracts WHERE contract_number = $1`, number,
	).Scan(&row.ID, &row.LeadID, &row.Number, &row.Status,
		&row.FilePath, &row.FileFormat, &row.TotalAmount, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contract.ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load contract: %w", err)
	}
	return &row, nil
}

// LatestContractByLead возвращает последний договор клиента
func (r *PostgresRegistry) LatestContractByLead(leadID int64) (*ContractRow, error) {
	row := ContractRow{}
	err := r.db.QueryRow(`
		SELECT id, lead_id, contract_number, status, file_path, file_format, total_amount, created_at
		FROM contracts WHERE lead_id = $1
		ORDER BY created_at DESC LIMIT 1`, leadID,
	).Scan(&row.ID, &row.LeadID, &row.Number, &row.Status,
		&row.FilePath, &row.FileFormat, &row.TotalAmount, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contract.ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load latest contract: %w", err)
	}
	return &row, nil
}

// UpdateContractStatus переводит договор в новый статус с проверкой
// допустимости перехода
func (r *PostgresRegistry) UpdateContractStatus(number string, to contract.Status) error {
	row, err := r.ContractByNumber(number)
	if err != nil {
		return err
	}

	if _, err := contract.Transition(row.Status, to); err != nil {
		return err
	}

	if _, err := r.db.Exec(
		`UPDATE contracts SET status = $2 WHERE contract_number = $1`, number, to,
	); err != nil {
		return fmt.Errorf("update contract status: %w", err)
	}

	logger.Info("contract status updated",
		logger.Field("contract_number", number),
		logger.Field("from", row.Status.String()),
		logger.Field("to", to.String()),
	)
	return nil
}

// SetContractFile записывает расположение сгенерированного файла
func (r *PostgresRegistry) SetContractFile(number, path, format string) error {
	_, err := r.db.Exec(
		`UPDATE contracts SET file_path = $2, file_format = $3 WHERE contract_number = $1`,
		number, path, format,
	)
	if err != nil {
		return fmt.Errorf("set contract file: %w", err)
	}
	return nil
}

// Close закрывает подключение к базе
func (r *PostgresRegistry) Close() error {
	return r.db.Close()
}
