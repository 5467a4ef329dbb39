// Package model holds the persisted entities. Date-valued fields carry ISO
// yyyy-mm-dd strings over char(10) columns; DATE columns would come back
// from the driver as time.Time and break string round-trips.
package model

// All returns every persisted model for migration.
func All() []any {
	return []any{
		&Consultant{},
		&Client{},
		&Contract{},
		&TimecardHeader{},
		&TimecardLine{},
		&Benchmark{},
		&BenchmarkHistory{},
		&ITTicket{},
		&ITTicketComment{},
		&ITTicketWorkLog{},
		&ITTicketAttachment{},
		&CollaborationSpace{},
		&CollaborationSpaceMember{},
		&CollaborationTask{},
		&CollaborationTaskComment{},
	}
}
