package convert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
)

func TestToDocxBinaryMissing(t *testing.T) {
	conv := NewLibreOffice(WithBinary("soffice-definitely-not-installed"))

	assert.False(t, conv.Available())

	_, err := conv.ToDocx(context.Background(), "/tmp/in.doc", t.TempDir())
	assert.ErrorIs(t, err, contract.ErrConversionUnavailable)
}

func TestOptions(t *testing.T) {
	conv := NewLibreOffice(WithBinary("/opt/libreoffice/soffice"), WithTimeout(5*time.Second))

	assert.Equal(t, "/opt/libreoffice/soffice", conv.binary)
	assert.Equal(t, 5*time.Second, conv.timeout)
}
