package blobstore

import "context"

// Store хранилище сгенерированных документов. Файлы именуются
// contract_<номер>.<расширение> и после записи не изменяются.
type Store interface {
	// Save сохраняет документ и возвращает его адрес в хранилище
	Save(ctx context.Context, filename string, data []byte) (string, error)
	Load(ctx context.Context, filename string) ([]byte, error)
}
