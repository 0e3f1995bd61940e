package job

// ===============================
// Job State
// ===============================

// Ciclo de vida de um job sequencial:
// idle -> starting -> running -> {finished | stopped | failed}
type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateFinished State = "finished"
	StateStopped  State = "stopped"
	StateFailed   State = "failed"
)

// IsTerminal indica que o job encerrou e liberou o worker
func (s State) IsTerminal() bool {
	return s == StateFinished || s == StateStopped || s == StateFailed
}

// IsActive indica que existe um worker vivo para o job
func (s State) IsActive() bool {
	return s == StateStarting || s == StateRunning
}
