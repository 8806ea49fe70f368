package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
)

func TestUpsertLeadMergesFields(t *testing.T) {
	reg := NewMemoryRegistry()

	id, err := reg.UpsertLead(Lead{TelegramID: 100, FirstName: "Иван", Region: "MOSCOW"})
	require.NoError(t, err)

	id2, err := reg.UpsertLead(Lead{TelegramID: 100, LastName: "Иванов", Phone: "+79001234567"})
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	lead, err := reg.LeadByTelegramID(100)
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, "Иван", lead.FirstName)
	assert.Equal(t, "Иванов", lead.LastName)
	assert.Equal(t, "+79001234567", lead.Phone)
	assert.Equal(t, "MOSCOW", lead.Region)
}

func TestUpdateLeadContactWriteOnce(t *testing.T) {
	reg := NewMemoryRegistry()

	id, err := reg.UpsertLead(Lead{TelegramID: 200, Phone: "+79001111111"})
	require.NoError(t, err)

	// телефон уже известен, email новый
	require.NoError(t, reg.UpdateLeadContact(id, "+79992222222", "new@mail.ru"))

	lead, err := reg.LeadByTelegramID(200)
	require.NoError(t, err)
	assert.Equal(t, "+79001111111", lead.Phone)
	assert.Equal(t, "new@mail.ru", lead.Email)
}

func TestContractLifecycle(t *testing.T) {
	reg := NewMemoryRegistry()

	leadID, err := reg.UpsertLead(Lead{TelegramID: 300})
	require.NoError(t, err)

	_, err = reg.CreateContract(leadID, "AV-20260827-AAAA0001", 30000)
	require.NoError(t, err)

	row, err := reg.ContractByNumber("AV-20260827-AAAA0001")
	require.NoError(t, err)
	assert.Equal(t, contract.StatusDraft, row.Status)
	assert.Equal(t, int64(30000), row.TotalAmount)

	require.NoError(t, reg.UpdateContractStatus(row.Number, contract.StatusSent))
	require.NoError(t, reg.UpdateContractStatus(row.Number, contract.StatusCodeSent))
	require.NoError(t, reg.UpdateContractStatus(row.Number, contract.StatusSigned))

	err = reg.UpdateContractStatus(row.Number, contract.StatusCancelled)
	assert.ErrorIs(t, err, contract.ErrInvalidTransition)
}

func TestLatestContractByLead(t *testing.T) {
	reg := NewMemoryRegistry()

	leadID, err := reg.UpsertLead(Lead{TelegramID: 400})
	require.NoError(t, err)

	_, err = reg.CreateContract(leadID, "AV-20260827-OLD00001", 15000)
	require.NoError(t, err)
	_, err = reg.CreateContract(leadID, "AV-20260827-NEW00001", 35000)
	require.NoError(t, err)

	latest, err := reg.LatestContractByLead(leadID)
	require.NoError(t, err)
	assert.Equal(t, "AV-20260827-NEW00001", latest.Number)

	_, err = reg.LatestContractByLead(999)
	assert.ErrorIs(t, err, contract.ErrContractNotFound)
}

func TestContractByNumberNotFound(t *testing.T) {
	reg := NewMemoryRegistry()
	_, err := reg.ContractByNumber("AV-00000000-MISSING1")
	assert.ErrorIs(t, err, contract.ErrContractNotFound)
}

func TestSetContractFile(t *testing.T) {
	reg := NewMemoryRegistry()

	leadID, err := reg.UpsertLead(Lead{TelegramID: 500})
	require.NoError(t, err)
	_, err = reg.CreateContract(leadID, "AV-20260827-FILE0001", 15000)
	require.NoError(t, err)

	require.NoError(t, reg.SetContractFile("AV-20260827-FILE0001", "/data/contract.docx", "docx"))

	row, err := reg.ContractByNumber("AV-20260827-FILE0001")
	require.NoError(t, err)
	assert.Equal(t, "/data/contract.docx", row.FilePath)
	assert.Equal(t, "docx", row.FileFormat)
}
