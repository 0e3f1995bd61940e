package cliente

import "github.com/imobflow/imob-crm-api/internal/models"

// ===============================
// Domain Actions
// ===============================

func ChangeStatus(cl *models.Cliente, to Status) error {
	if err := CanTransition(Status(cl.Status), to); err != nil {
		return err
	}
	cl.Status = string(to)
	return nil
}

// MarkVendido é disparado pela confirmação de uma venda: a etapa do funil
// passa a vendido independente da etapa atual.
func MarkVendido(cl *models.Cliente) {
	cl.Status = string(StatusVendido)
}
