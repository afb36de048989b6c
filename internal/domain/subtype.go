package domain

import "time"

// Subtype rows share their primary key with the parent product row. All
// measurement fields are nullable on purpose: an incoming payload patches
// only the fields it carries, a nil field never clears a stored value.

// HotCoil holds hot-rolling line measurements, 1:1 with a hot_coil product.
type HotCoil struct {
	ID            int64     `gorm:"column:id;primaryKey" json:"id" form:"id"`
	LazerDistance *float64  `json:"lazer_distance" form:"lazer_distance"`
	IrPiro        *float64  `json:"ir_piro" form:"ir_piro"`
	PressureValue *float64  `json:"pressure_value" form:"pressure_value"`
	CreatedAt     time.Time `gorm:"-:migration;->" json:"created_at,omitempty"`
}

// TableName Specify table name
func (HotCoil) TableName() string {
	return "hot_coil"
}

// ColdCoil holds cold-rolling line measurements, 1:1 with a cold_coil product.
type ColdCoil struct {
	ProductID int64     `gorm:"column:product_id;primaryKey" json:"product_id" form:"product_id"`
	LoadCell  *int      `json:"load_cell" form:"load_cell"`
	IrPiro    *int      `json:"ir_piro" form:"ir_piro"`
	Termokup  *int      `json:"termokup" form:"termokup"`
	CreatedAt time.Time `gorm:"-:migration;->" json:"created_at,omitempty"`
}

// TableName Specify table name
func (ColdCoil) TableName() string {
	return "cold_coil"
}

// Plates holds plate/slab line measurements, 1:1 with a plates product.
// The LVDT value doubles as the identifier recognized by the OCR flow.
type Plates struct {
	ProductID     int64     `gorm:"column:product_id;primaryKey" json:"product_id" form:"product_id"`
	SpeedValue    *int      `json:"speed_value" form:"speed_value"`
	PressureValue *int      `json:"pressure_value" form:"pressure_value"`
	Lvdt          *int64    `json:"lvdt" form:"lvdt"`
	CreatedAt     time.Time `gorm:"-:migration;->" json:"created_at,omitempty"`
}

// TableName Specify table name
func (Plates) TableName() string {
	return "plates"
}
