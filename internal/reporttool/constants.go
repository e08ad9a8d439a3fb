package reporttool

// Report type constants.
const (
	TypeAuto       = "auto"
	TypeStandings  = "standings"
	TypeTravellers = "travellers"
)

// File permission constants.
const (
	outputFilePermission = 0600
)
