package domain

var Tables = []interface{}{
	// Products
	&Product{},
	&HotCoil{},
	&ColdCoil{},
	&Plates{},
	// Directory
	&User{},
	// System
	&AuditLog{},
	&ProductionMetric{},
}
