package models

// All lists every persisted model, in migration order
func All() []interface{} {
	return []interface{}{
		&Project{},
		&Receivable{},
		&AnticipationRequest{},
		&PaymentPlan{},
		&Installment{},
		&ReceivableLink{},
		&BillingDocument{},
		&Index{},
		&IndexMonthlyUpdate{},
		&AuditLog{},
	}
}
