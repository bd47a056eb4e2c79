package domain

type SyncEventKind string

const (
	SyncEventInfo     SyncEventKind = "info"
	SyncEventProgress SyncEventKind = "progress"
	SyncEventError    SyncEventKind = "error"
)

// SyncEvent é uma entrada do fluxo de progresso de uma sincronização
type SyncEvent struct {
	Message string        `json:"msg"`
	Kind    SyncEventKind `json:"type"`
	Done    bool          `json:"done"`
}

// SyncRequest descreve o escopo de uma execução de sincronização
type SyncRequest struct {
	AccountID string
	Range     *DateRange
}
