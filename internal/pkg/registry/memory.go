package registry

import (
	"sync"
	"time"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
)

// MemoryRegistry реестр в памяти процесса для тестов и локального
// запуска без PostgreSQL
type MemoryRegistry struct {
	mu        sync.Mutex
	leads     map[int64]*Lead
	contracts map[string]*ContractRow
	nextID    int64
}

// NewMemoryRegistry создает пустой реестр
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		leads:     make(map[int64]*Lead),
		contracts: make(map[string]*ContractRow),
		nextID:    1,
	}
}

func (r *MemoryRegistry) UpsertLead(lead Lead) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.leads[lead.TelegramID]
	if !ok {
		lead.ID = r.nextID
		r.nextID++
		r.leads[lead.TelegramID] = &lead
		return lead.ID, nil
	}

	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&existing.FirstName, lead.FirstName)
	merge(&existing.LastName, lead.LastName)
	merge(&existing.Phone, lead.Phone)
	merge(&existing.Email, lead.Email)
	merge(&existing.Region, lead.Region)
	merge(&existing.CaseType, lead.CaseType)
	merge(&existing.CaseDescription, lead.CaseDescription)
	return existing.ID, nil
}

func (r *MemoryRegistry) LeadByTelegramID(telegramID int64) (*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[telegramID]
	if !ok {
		return nil, nil
	}
	copied := *lead
	return &copied, nil
}

func (r *MemoryRegistry) UpdateLeadContact(leadID int64, phone, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lead := range r.leads {
		if lead.ID != leadID {
			continue
		}
		if lead.Phone == "" && phone != "" {
			lead.Phone = phone
		}
		if lead.Email == "" && email != "" {
			lead.Email = email
		}
		return nil
	}
	return nil
}

func (r *MemoryRegistry) CreateContract(leadID int64, number string, totalAmount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.contracts[number] = &ContractRow{
		ID:          id,
		LeadID:      leadID,
		Number:      number,
		Status:      contract.StatusDraft,
		TotalAmount: totalAmount,
		CreatedAt:   time.Now(),
	}
	return id, nil
}

func (r *MemoryRegistry) ContractByNumber(number string) (*ContractRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.contracts[number]
	if !ok {
		return nil, contract.ErrContractNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *MemoryRegistry) LatestContractByLead(leadID int64) (*ContractRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *ContractRow
	for _, row := range r.contracts {
		if row.LeadID != leadID {
			continue
		}
		if latest == nil || row.ID > latest.ID {
			latest = row
		}
	}
	if latest == nil {
		return nil, contract.ErrContractNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *MemoryRegistry) UpdateContractStatus(number string, to contract.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.contracts[number]
	if !ok {
		return contract.ErrContractNotFound
	}
	next, err := contract.Transition(row.Status, to)
	if err != nil {
		return err
	}
	row.Status = next
	return nil
}

func (r *MemoryRegistry) SetContractFile(number, path, format string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.contracts[number]
	if !ok {
		return contract.ErrContractNotFound
	}
	row.FilePath = path
	row.FileFormat = format
	return nil
}
