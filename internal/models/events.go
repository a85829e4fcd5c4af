package models

import "fmt"

// Audit actions
const (
	AuditActionAdded    = "ADDED"
	AuditActionEdited   = "EDITED"
	AuditActionRemoved  = "REMOVED"
	AuditActionExported = "EXPORTED"
)

// OrderAuditMessage formats the audit line body for an order change
func OrderAuditMessage(orderNumber int, action string) string {
	return fmt.Sprintf("Order %d %s.", orderNumber, action)
}

// ExportAuditMessage is the audit line body written after a full export
func ExportAuditMessage() string {
	return fmt.Sprintf("All data %s.", AuditActionExported)
}
