package model

// MasterData holds the per-profile metadata used to locate the consumer and
// annotate results.
type MasterData struct {
	ProfileID     int64
	ZipCode       string
	SectorGroupID int64
	SectorGroup   string
}
