package permissions

func init() {
	defs := []*Definition{
		{Key: "user:create", Description: "Create users"},
		{Key: "user:read", Description: "View users"},
		{Key: "user:update", Description: "Edit users"},
		{Key: "user:delete", Description: "Delete users"},
		{Key: "user:import", Description: "Bulk import users"},
		{Key: "user:export", Description: "Export users"},

		{Key: "role:create", Description: "Create roles"},
		{Key: "role:read", Description: "View roles"},
		{Key: "role:update", Description: "Edit roles and their permission sets"},
		{Key: "role:delete", Description: "Delete roles"},

		{Key: "permission:read", Description: "View the permission catalog"},
		{Key: "permission:update", Description: "Assign and revoke permission overrides"},

		{Key: "department:create", Description: "Create departments"},
		{Key: "department:read", Description: "View departments"},
		{Key: "department:update", Description: "Edit departments"},
		{Key: "department:delete", Description: "Delete departments"},

		{Key: "product:create", Description: "Create products"},
		{Key: "product:read", Description: "View products"},
		{Key: "product:update", Description: "Edit products"},
		{Key: "product:delete", Description: "Delete products"},
		{Key: "product:import", Description: "Bulk import products"},
		{Key: "product:export", Description: "Export products"},

		{Key: "customer:create", Description: "Create customers"},
		{Key: "customer:read", Description: "View customers"},
		{Key: "customer:update", Description: "Edit customers"},
		{Key: "customer:delete", Description: "Delete customers"},
		{Key: "customer:import", Description: "Bulk import customers"},
		{Key: "customer:export", Description: "Export customers"},

		{Key: "order:create", Description: "Create orders"},
		{Key: "order:read", Description: "View orders"},
		{Key: "order:update", Description: "Edit orders"},
		{Key: "order:delete", Description: "Delete orders"},
		{Key: "order:export", Description: "Export orders"},

		{Key: "invoice:create", Description: "Create invoices"},
		{Key: "invoice:read", Description: "View invoices"},
		{Key: "invoice:update", Description: "Edit invoices"},
		{Key: "invoice:delete", Description: "Delete invoices"},
		{Key: "invoice:export", Description: "Export invoices as PDF/CSV"},

		{Key: "attendance:create", Description: "Record attendance"},
		{Key: "attendance:read", Description: "View attendance"},
		{Key: "attendance:update", Description: "Correct attendance records"},
		{Key: "attendance:delete", Description: "Delete attendance records"},
		{Key: "attendance:export", Description: "Export attendance"},

		{Key: "salary:create", Description: "Create salary records"},
		{Key: "salary:read", Description: "View salary records"},
		{Key: "salary:update", Description: "Edit salary records"},
		{Key: "salary:delete", Description: "Delete salary records"},
		{Key: "salary:export", Description: "Export payroll"},

		{Key: "dashboard:read", Description: "View dashboards"},

		{Key: "tenant:read", Description: "View tenant settings"},
		{Key: "tenant:update", Description: "Edit tenant settings"},

		{Key: "audit:read", Description: "View audit logs"},
		{Key: "audit:export", Description: "Export audit logs"},
	}

	for _, def := range defs {
		if err := Register(def); err != nil {
			panic(err)
		}
	}
}
