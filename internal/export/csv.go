package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/domain"
)

// The report format is consumed by external spreadsheet tooling and must be
// reproduced exactly: UTF-8 with a leading BOM, every field double-quoted,
// and this fixed header.
var header = []string{
	"Projeto", "Setor", "Colaborador",
	"Atividade Planejada", "Atividade Entregue",
	"Status", "Prioridade", "Data Entrega", "Horas", "Observações",
}

const bom = "\uFEFF"

const dueDateLayout = "02/01/2006"

// Filename returns the report filename for the given day:
// iti_tech_relatorio_<YYYY-MM-DD>.csv
func Filename(now time.Time) string {
	return fmt.Sprintf("iti_tech_relatorio_%s.csv", now.Format("2006-01-02"))
}

// TaskReport renders the given tasks as CSV, in the order provided. Project
// and collaborator names are resolved from the accompanying collections;
// unresolvable references render as empty fields.
func TaskReport(tasks []domain.Task, projects []domain.Project, users []domain.User) []byte {
	projectNames := make(map[uuid.UUID]string, len(projects))
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}
	userNames := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		userNames[u.ID] = u.Name
	}

	var b strings.Builder
	b.WriteString(bom)
	writeRow(&b, header)

	for _, task := range tasks {
		dueDate := ""
		if task.DueDate != nil {
			dueDate = task.DueDate.Format(dueDateLayout)
		}
		writeRow(&b, []string{
			projectNames[task.ProjectID],
			task.Sector,
			userNames[task.CollaboratorID],
			task.PlannedActivity,
			task.DeliveredActivity,
			string(task.Status),
			string(task.Priority),
			dueDate,
			task.HoursDedicated,
			task.Notes,
		})
	}
	return []byte(b.String())
}

// writeRow quotes every field unconditionally, doubling embedded quotes
func writeRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
