package db

import (
	"context"
	"database/sql"
	"time"

	"drafts-api/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrAuthorNotFound is returned when no account matches the author email.
var ErrAuthorNotFound = errors.New("no user found for connect by email")

// PostStore is the persistence contract for posts.
type PostStore interface {
	Create(ctx context.Context, data models.PostCreateData) (models.Post, error)
	ListDrafts(ctx context.Context, authorEmail string) ([]models.Post, error)
}

type PostRepository struct {
	DB *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{DB: db}
}

const insertPostQuery = `
	INSERT INTO posts (id, title, content, published, author_id, created_at)
	SELECT $1, $2, $3, $4, u.id, $5 FROM users u WHERE u.email = $6
	RETURNING author_id`

// Create inserts a post and connects it to the user owning data.AuthorEmail.
func (r *PostRepository) Create(ctx context.Context, data models.PostCreateData) (models.Post, error) {
	post := models.Post{
		ID:        uuid.New(),
		Title:     data.Title,
		Content:   data.Content,
		Published: data.Published,
		CreatedAt: time.Now().UTC(),
	}

	err := r.DB.QueryRowContext(ctx, insertPostQuery,
		post.ID, post.Title, post.Content, post.Published, post.CreatedAt, data.AuthorEmail).
		Scan(&post.AuthorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, errors.Wrapf(ErrAuthorNotFound, "connect author %q", data.AuthorEmail)
		}
		return models.Post{}, errors.Wrap(err, "failed to insert post")
	}

	return post, nil
}

const listDraftsQuery = `
	SELECT p.id, p.title, p.content, p.published, p.author_id, p.created_at, u.name, u.email
	FROM posts p
	JOIN users u ON u.id = p.author_id
	WHERE u.email = $1 AND p.published = false
	ORDER BY p.created_at DESC`

// ListDrafts returns the unpublished posts of an author, newest first.
func (r *PostRepository) ListDrafts(ctx context.Context, authorEmail string) (posts []models.Post, err error) {
	rows, err := r.DB.QueryContext(ctx, listDraftsQuery, authorEmail)
	if err != nil {
		return nil, errors.Wrap(err, "error querying drafts")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "error closing rows")
		}
	}()

	posts = []models.Post{}
	for rows.Next() {
		var (
			post    models.Post
			author  models.Author
			content sql.NullString
		)
		if err := rows.Scan(&post.ID, &post.Title, &content, &post.Published, &post.AuthorID,
			&post.CreatedAt, &author.Name, &author.Email); err != nil {
			return nil, errors.Wrap(err, "error scanning draft")
		}
		if content.Valid {
			post.Content = &content.String
		}
		post.Author = &author
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating over drafts")
	}

	return posts, nil
}
