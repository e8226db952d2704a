package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/kino/internal/model"
)

// FavoriteRepo stores the user ↔ movie bookmarks.
type FavoriteRepo struct {
	db *sql.DB
}

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add bookmarks movieID for userID.  Adding an existing pair is not an
// error: the stored favorite is returned with created=false.
func (r *FavoriteRepo) Add(ctx context.Context, userID, movieID uint64, now time.Time) (fav model.Favorite, created bool, err error) {
	ok, err := rowExists(ctx, r.db, "movies", movieID)
	if err != nil {
		return fav, false, err
	}
	if !ok {
		return fav, false, ErrMovieNotFound
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO favorites (user_id, movie_id, created_at) VALUES (?, ?, ?)",
		userID, movieID, dbTime(now))
	if err != nil {
		if !isDuplicate(err) {
			return fav, false, err
		}
		fav, err = r.get(ctx, userID, movieID)
		return fav, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fav, false, err
	}
	return model.Favorite{ID: uint64(id), UserID: userID, MovieID: movieID, CreatedAt: now.UTC().Truncate(time.Second)}, true, nil
}

// Remove deletes the bookmark, or returns ErrFavoriteNotFound.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, movieID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM favorites WHERE user_id = ? AND movie_id = ?", userID, movieID)
	if err != nil {
		return err
	}
	return affectedOr(res, ErrFavoriteNotFound)
}

// ListByUser returns the user's favorites with their movies, most recent
// first.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT f.id, f.user_id, f.movie_id, f.created_at, `+movieColumns+`
		FROM favorites f JOIN movies m ON m.id = f.movie_id
		WHERE f.user_id = ? ORDER BY f.created_at DESC, f.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Favorite, 0)
	for rows.Next() {
		var (
			f model.Favorite
			m model.Movie
		)
		if err := rows.Scan(&f.ID, &f.UserID, &f.MovieID, timeScanner{&f.CreatedAt},
			&m.ID, &m.Title, &m.OriginalTitle, &m.Description, &m.ReleaseDate,
			&m.Duration, &m.Country, &m.AgeRating, &m.Poster); err != nil {
			return nil, err
		}
		f.Movie = &m
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FavoriteRepo) get(ctx context.Context, userID, movieID uint64) (model.Favorite, error) {
	var f model.Favorite
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, movie_id, created_at FROM favorites WHERE user_id = ? AND movie_id = ?",
		userID, movieID).Scan(&f.ID, &f.UserID, &f.MovieID, timeScanner{&f.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return f, ErrFavoriteNotFound
	}
	return f, err
}
