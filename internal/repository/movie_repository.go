package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/search"
)

const movieColumns = "m.id, m.title, m.original_title, m.description, m.release_date, m.duration, m.country, m.age_rating, m.poster"

func scanMovie(s scanner, m *model.Movie) error {
	return s.Scan(&m.ID, &m.Title, &m.OriginalTitle, &m.Description, &m.ReleaseDate,
		&m.Duration, &m.Country, &m.AgeRating, &m.Poster)
}

// MovieRepo encapsulates all database queries related to movies and their
// genre links.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Create inserts the movie and links it to genreIDs in one transaction.
// Unknown genre ids abort the insert with ErrGenreNotFound.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie, genreIDs []uint64) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := checkGenres(ctx, tx, genreIDs); err != nil {
			return err
		}
		const q = `INSERT INTO movies (title, original_title, description, release_date, duration, country, age_rating, poster)
		           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, m.Title, m.OriginalTitle, m.Description, m.ReleaseDate,
			m.Duration, m.Country, m.AgeRating, m.Poster)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		m.ID = uint64(id)
		return linkGenres(ctx, tx, m.ID, genreIDs)
	})
}

// Update overwrites every column of the movie and replaces its genre links.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie, genreIDs []uint64) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		ok, err := rowExists(ctx, tx, "movies", m.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrMovieNotFound
		}
		if err := checkGenres(ctx, tx, genreIDs); err != nil {
			return err
		}
		const q = `UPDATE movies SET title = ?, original_title = ?, description = ?, release_date = ?,
		           duration = ?, country = ?, age_rating = ?, poster = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, q, m.Title, m.OriginalTitle, m.Description, m.ReleaseDate,
			m.Duration, m.Country, m.AgeRating, m.Poster, m.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM movie_genres WHERE movie_id = ?", m.ID); err != nil {
			return err
		}
		return linkGenres(ctx, tx, m.ID, genreIDs)
	})
}

// Delete removes the movie together with its sessions, their tickets, its
// favorites and genre links.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		stmts := []string{
			"DELETE FROM tickets WHERE session_id IN (SELECT id FROM sessions WHERE movie_id = ?)",
			"DELETE FROM sessions WHERE movie_id = ?",
			"DELETE FROM favorites WHERE movie_id = ?",
			"DELETE FROM movie_genres WHERE movie_id = ?",
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
		if err != nil {
			return err
		}
		return affectedOr(res, ErrMovieNotFound)
	})
}

// GetByID fetches a movie with its genres.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	var m model.Movie
	err := scanMovie(r.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies m WHERE m.id = ?", id), &m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	genres, err := genresForMovie(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	m.Genres = genres
	return &m, nil
}

// ListAll returns every movie ordered by title.
func (r *MovieRepo) ListAll(ctx context.Context) ([]model.Movie, error) {
	return r.list(ctx, "SELECT "+movieColumns+" FROM movies m ORDER BY m.title, m.id")
}

// ListUpcomingReleases returns movies premiering on or after today, soonest
// first.
func (r *MovieRepo) ListUpcomingReleases(ctx context.Context, today model.Date, limit int) ([]model.Movie, error) {
	const q = "SELECT " + movieColumns + ` FROM movies m
	           WHERE m.release_date >= ?
	           ORDER BY m.release_date, m.title, m.id LIMIT ?`
	return r.list(ctx, q, today, limit)
}

// ListSimilar returns movies sharing at least one genre with movieID,
// excluding the movie itself.  Undated movies sort last.
func (r *MovieRepo) ListSimilar(ctx context.Context, movieID uint64, limit int) ([]model.Movie, error) {
	const q = "SELECT " + movieColumns + ` FROM movies m
	           WHERE m.id <> ? AND EXISTS (
	               SELECT 1 FROM movie_genres mg
	               JOIN movie_genres own ON own.genre_id = mg.genre_id
	               WHERE mg.movie_id = m.id AND own.movie_id = ?)
	           ORDER BY CASE WHEN m.release_date IS NULL THEN 1 ELSE 0 END, m.release_date, m.title, m.id
	           LIMIT ?`
	return r.list(ctx, q, movieID, movieID, limit)
}

// ListPopular ranks movies with sessions in [from, to] by tickets sold in
// that window.  AvgPrice is the mean price of those sessions.
func (r *MovieRepo) ListPopular(ctx context.Context, from, to time.Time, limit int) ([]model.PopularMovie, error) {
	const q = `SELECT m.id, m.title, m.poster,
	               (SELECT COUNT(DISTINCT t.id) FROM tickets t
	                  JOIN sessions s ON s.id = t.session_id
	                 WHERE s.movie_id = m.id AND s.start_time BETWEEN ? AND ?) AS sold,
	               (SELECT AVG(s.price_cents) FROM sessions s
	                 WHERE s.movie_id = m.id AND s.start_time BETWEEN ? AND ?) AS avg_cents
	           FROM movies m
	           WHERE EXISTS (SELECT 1 FROM sessions s WHERE s.movie_id = m.id AND s.start_time BETWEEN ? AND ?)
	           ORDER BY sold DESC, m.title, m.id
	           LIMIT ?`
	f, t := dbTime(from), dbTime(to)
	rows, err := r.db.QueryContext(ctx, q, f, t, f, t, f, t, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.PopularMovie, 0, limit)
	for rows.Next() {
		var (
			p        model.PopularMovie
			avgCents sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Poster, &p.Sold, &avgCents); err != nil {
			return nil, err
		}
		p.AvgPrice = avgCents.Float64 / 100.0
		out = append(out, p)
	}
	return out, rows.Err()
}

// SearchCandidates loads the searchable projection of every movie.
func (r *MovieRepo) SearchCandidates(ctx context.Context) ([]search.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title, original_title FROM movies")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]search.Candidate, 0)
	for rows.Next() {
		var (
			id              uint64
			title, original string
		)
		if err := rows.Scan(&id, &title, &original); err != nil {
			return nil, err
		}
		out = append(out, search.Candidate{ID: id, Fields: []string{title, original}})
	}
	return out, rows.Err()
}

// SearchIDs evaluates the term conjunction with LIKE in the database.
// Callers must only use it on engines whose LIKE folds Unicode case.
func (r *MovieRepo) SearchIDs(ctx context.Context, terms []string) ([]uint64, error) {
	cond, args := termConditions(terms, "title", "original_title")
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM movies WHERE "+cond, args...)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

// ListHitsByIDs loads the movies in ids, each with the number of its
// sessions starting at or after now.  Order is unspecified.
func (r *MovieRepo) ListHitsByIDs(ctx context.Context, ids []uint64, now time.Time) ([]model.MovieHit, error) {
	out := make([]model.MovieHit, 0, len(ids))
	for _, part := range chunk(ids, 500) {
		q := "SELECT " + movieColumns + `,
		        (SELECT COUNT(DISTINCT s.id) FROM sessions s WHERE s.movie_id = m.id AND s.start_time >= ?)
		      FROM movies m WHERE m.id IN (` + placeholders(len(part)) + ")"
		args := append([]any{dbTime(now)}, idArgs(part)...)
		rows, err := r.db.QueryContext(ctx, q, args...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var h model.MovieHit
			if err := rows.Scan(&h.ID, &h.Title, &h.OriginalTitle, &h.Description, &h.ReleaseDate,
				&h.Duration, &h.Country, &h.AgeRating, &h.Poster, &h.UpcomingSessions); err != nil {
				rows.Close()
				return nil, err
			}
			out = append(out, h)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Exists reports whether a movie with id is stored.
func (r *MovieRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	return rowExists(ctx, r.db, "movies", id)
}

func (r *MovieRepo) list(ctx context.Context, q string, args ...any) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := scanMovie(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// checkGenres fails with ErrGenreNotFound unless every id is a stored genre.
func checkGenres(ctx context.Context, q queryer, ids []uint64) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	var n int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM genres WHERE id IN ("+placeholders(len(ids))+")", idArgs(ids)...).Scan(&n)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return fmt.Errorf("%w: %d of %d genres exist", ErrGenreNotFound, n, len(ids))
	}
	return nil
}

func linkGenres(ctx context.Context, tx *sql.Tx, movieID uint64, genreIDs []uint64) error {
	ids := uniqueIDs(genreIDs)
	if len(ids) == 0 {
		return nil
	}
	vals := make([]string, len(ids))
	args := make([]any, 0, 2*len(ids))
	for i, g := range ids {
		vals[i] = "(?, ?)"
		args = append(args, movieID, g)
	}
	_, err := tx.ExecContext(ctx, "INSERT INTO movie_genres (movie_id, genre_id) VALUES "+strings.Join(vals, ", "), args...)
	return err
}

func genresForMovie(ctx context.Context, q queryer, movieID uint64) ([]model.Genre, error) {
	rows, err := q.QueryContext(ctx, `SELECT g.id, g.name FROM genres g
		JOIN movie_genres mg ON mg.genre_id = g.id
		WHERE mg.movie_id = ? ORDER BY g.name`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Genre, 0)
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
