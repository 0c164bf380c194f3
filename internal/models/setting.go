package models

// Setting is a durable key-value row. The reminder ledger keeps its entire
// serialized task->kinds mapping under a single well-known key.
type Setting struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

// TableName specifies the table name for Setting Model
func (Setting) TableName() string {
	return "settings"
}
