package convert

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/metrics"
)

// DefaultTimeout ограничение на один вызов внешнего конвертера
const DefaultTimeout = 30 * time.Second

// LibreOffice нормализует устаревшие .doc файлы в .docx через
// soffice в headless режиме. Вызов внешнего процесса ограничен
// таймаутом, отсутствие бинарника отличимо от порчи файла.
type LibreOffice struct {
	binary  string
	timeout time.Duration
}

// Option настраивает конвертер
type Option func(*LibreOffice)

// WithBinary задает путь к исполняемому файлу soffice
func WithBinary(path string) Option {
	return func(l *LibreOffice) { l.binary = path }
}

// WithTimeout задает таймаут конвертации
func WithTimeout(d time.Duration) Option {
	return func(l *LibreOffice) { l.timeout = d }
}

// NewLibreOffice создает конвертер с настройками по умолчанию
func NewLibreOffice(opts ...Option) *LibreOffice {
	l := &LibreOffice{
		binary:  "soffice",
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Available сообщает, установлен ли конвертер
func (l *LibreOffice) Available() bool {
	_, err := exec.LookPath(l.binary)
	return err == nil
}

// ToDocx конвертирует файл в .docx в каталоге outDir и возвращает
// путь к результату
func (l *LibreOffice) ToDocx(ctx context.Context, inputPath, outDir string) (string, error) {
	if _, err := exec.LookPath(l.binary); err != nil {
		metrics.ConversionRequestsTotal.WithLabelValues("libreoffice", "unavailable").Inc()
		return "", fmt.Errorf("%w: %s not found in PATH", contract.ErrConversionUnavailable, l.binary)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, l.binary,
		"--headless",
		"--convert-to", "docx",
		"--outdir", outDir,
		inputPath,
	)

	output, err := cmd.CombinedOutput()
	metrics.ConversionRequestDuration.WithLabelValues("libreoffice", "doc_to_docx").Observe(time.Since(start).Seconds())

	if ctx.Err() == context.DeadlineExceeded {
		metrics.ConversionRequestsTotal.WithLabelValues("libreoffice", "timeout").Inc()
		return "", fmt.Errorf("%w: conversion timed out after %s", contract.ErrConversionUnavailable, l.timeout)
	}
	if err != nil {
		metrics.ConversionRequestsTotal.WithLabelValues("libreoffice", "error").Inc()
		logger.Error("libreoffice conversion failed",
			logger.Field("input", filepath.Base(inputPath)),
			logger.Field("output", strings.TrimSpace(string(output))),
		)
		return "", fmt.Errorf("convert %s: %w", filepath.Base(inputPath), err)
	}

	metrics.ConversionRequestsTotal.WithLabelValues("libreoffice", "success").Inc()

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	converted := filepath.Join(outDir, base+".docx")

	logger.Info("legacy document converted",
		logger.Field("input", filepath.Base(inputPath)),
		logger.Field("converted", filepath.Base(converted)),
	)
	return converted, nil
}
