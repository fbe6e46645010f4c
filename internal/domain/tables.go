package domain

var Tables = []interface{}{
	// Catalog
	&Product{},
	&HomePage{},
	&AboutPage{},
	// Accounts
	&User{},
	// System
	&AuditLog{},
}
