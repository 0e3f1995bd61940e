package job

import "time"

// Snapshot é a visão imutável do progresso de um job, retornada pelo
// endpoint de status a cada poll.
type Snapshot struct {
	JobID string `json:"job_id"`
	Kind  Kind   `json:"kind"`
	State State  `json:"state"`

	IsRunning  bool `json:"is_running"`
	IsFinished bool `json:"is_finished"`

	Processed int `json:"processed"`
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`

	// item em processamento no momento (nome do cliente)
	Current string `json:"current"`

	StartedAt      *time.Time `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at"`
	ElapsedSeconds float64    `json:"elapsed_seconds"`

	LastError       string `json:"last_error"`
	ConnectionState string `json:"connection_state"`
}

// IdleSnapshot é o status devolvido quando nenhum job do tipo rodou ainda
func IdleSnapshot(kind Kind) Snapshot {
	return Snapshot{
		Kind:  kind,
		State: StateIdle,
	}
}
