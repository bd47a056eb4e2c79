package syncing

import "errors"

var (
	ErrSyncFailed   = errors.New("sync failed")
	ErrSyncCanceled = errors.New("sync canceled")
)

// FatalError interrompe a execução inteira; Message é o texto exibido ao usuário
type FatalError struct {
	Message string
	Err     error
}

func (e *FatalError) Error() string {
	return e.Message
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func NewFatalError(message string, err error) *FatalError {
	return &FatalError{
		Message: message,
		Err:     err,
	}
}
