package model

// Movie is a film in the catalog.  Sessions schedule it in halls and
// genres classify it.  This struct corresponds to a row in the `movies`
// table plus its `movie_genres` links.
//
// Fields:
//  ID            – primary key identifier.
//  Title         – display title, required.
//  OriginalTitle – title in the original language, optional.
//  Description   – free text synopsis.
//  ReleaseDate   – premiere date, nil when unknown.
//  Duration      – running time in minutes.
//  Country       – production country.
//  AgeRating     – rating label such as "16+".
//  Poster        – poster URL as entered; sanitize before rendering.
//  Genres        – attached genres (loaded on detail reads only).
type Movie struct {
	ID            uint64  `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Description   string  `json:"description"`
	ReleaseDate   *Date   `json:"release_date"`
	Duration      uint32  `json:"duration"`
	Country       string  `json:"country"`
	AgeRating     string  `json:"age_rating"`
	Poster        string  `json:"poster"`
	Genres        []Genre `json:"genres,omitempty"`
}

// Genre classifies movies.  Names are unique.
type Genre struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// MovieHit is a movie matched by a search together with the number of its
// sessions that have not started yet.
type MovieHit struct {
	Movie
	UpcomingSessions int64 `json:"upcoming_sessions"`
}

// PopularMovie is a movie with ticket sales over an upcoming window.
type PopularMovie struct {
	ID       uint64  `json:"id"`
	Title    string  `json:"title"`
	Poster   string  `json:"poster"`
	Sold     int64   `json:"sold"`
	AvgPrice float64 `json:"avg_price"`
}
