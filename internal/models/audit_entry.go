package models

// Audit actions recorded by the service.
const (
	ActionLogin    = "Login"
	ActionRegister = "Registro"
	ActionLogout   = "Logout"
	ActionAccess   = "Acesso"
	ActionImport   = "Importação"
	ActionExport   = "Exportação"
	ActionBackup   = "Backup"
)

// AuditEntry is an immutable audit log line. User is a display name, not a
// reference to a User row.
type AuditEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}
