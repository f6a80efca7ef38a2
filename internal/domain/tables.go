package domain

var Tables = []interface{}{
	// System
	&SysOpr{},
	&SysOprLog{},
	// Catalog
	&Category{},
	&Brand{},
	&Seller{},
	&Product{},
}
