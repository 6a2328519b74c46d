package library

// TitleFilter specifies criteria for listing titles.
type TitleFilter struct {
	Kind        *Kind
	Status      *Status // matches either dimension
	TMDBID      *int64
	TVDBID      *int64
	WithSeasons bool
	Limit       int // 0 = no limit
	Offset      int
}
