package committing

import "errors"

var (
	ErrAccountEmailRequired = errors.New("account email is required")
	ErrTokenNotFound        = errors.New("no broadciel token registered for account")
	ErrNoCampaigns          = errors.New("payload has no campaigns")
)

// parentFailedMessage é gravado em todos os descendentes de um nó falho
const parentFailedMessage = "parent failed"
