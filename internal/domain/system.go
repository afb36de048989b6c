package domain

import "time"

// AuditLog records privileged directory operations (role changes, user
// deletions). IDs are snowflake-generated so entries sort by time.
type AuditLog struct {
	ID        int64     `json:"id,string"`
	OprName   string    `json:"opr_name"`
	OptAction string    `json:"opt_action"`
	OptDesc   string    `json:"opt_desc"`
	OptTime   time.Time `json:"opt_time"`
}

// TableName Specify table name
func (AuditLog) TableName() string {
	return "audit_log"
}

// ProductionMetric is a daily snapshot written by the stats scheduler.
type ProductionMetric struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Day            string    `gorm:"index" json:"day"`
	HotCoilCount   int64     `json:"hot_coil_count"`
	ColdCoilCount  int64     `json:"cold_coil_count"`
	PlatesCount    int64     `json:"plates_count"`
	PressureMean   float64   `json:"pressure_mean"`
	PressureMedian float64   `json:"pressure_median"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName Specify table name
func (ProductionMetric) TableName() string {
	return "production_metric"
}
