package scraper

// State is a step of the pagination driver.
type State int

const (
	StateIdle State = iota
	StateFetchingSearchPage
	StateExtractingLinks
	StateFetchingListing
	StateAccumulating
	StateDone
	StateTerminated
)

var stateNames = [...]string{
	StateIdle:               "idle",
	StateFetchingSearchPage: "fetching-search-page",
	StateExtractingLinks:    "extracting-links",
	StateFetchingListing:    "fetching-listing",
	StateAccumulating:       "accumulating",
	StateDone:               "done",
	StateTerminated:         "terminated",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
