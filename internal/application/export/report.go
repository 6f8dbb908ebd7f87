package export

import (
	"time"

	"github.com/jhoicas/arba-api/internal/domain/entity"
)

// RunReportGenerator define el puerto de salida para el reporte de corrida
// (PDF con los lotes generados y los comprobantes excluidos).
type RunReportGenerator interface {
	GenerateRunReport(company *entity.Company, period time.Time, result *Result) ([]byte, error)
}
