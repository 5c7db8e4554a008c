package consolidator

import "github.com/rs/zerolog"

// Stats counts what happened to each unit of work during a run
type Stats struct {
	ArchivesProcessed  int
	ArchivesFailed     int
	EntriesFailed      int
	DocumentsProcessed int
	DocumentsFailed    int

	ServicesSeen     int
	ServicesRetained int
	RejectedValidity int
	RejectedVersion  int

	Stops        int
	Associations int
}

func (s Stats) Log(logger zerolog.Logger) {
	logger.Info().
		Int("archives", s.ArchivesProcessed).
		Int("archivesfailed", s.ArchivesFailed).
		Int("entriesfailed", s.EntriesFailed).
		Int("documents", s.DocumentsProcessed).
		Int("documentsfailed", s.DocumentsFailed).
		Int("seen", s.ServicesSeen).
		Int("retained", s.ServicesRetained).
		Int("rejectedvalidity", s.RejectedValidity).
		Int("rejectedversion", s.RejectedVersion).
		Int("stops", s.Stops).
		Int("associations", s.Associations).
		Msg("Consolidation complete")
}
