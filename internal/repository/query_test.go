package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestQuery_Placeholders(t *testing.T) {
	var q query
	q.where("v.status = " + q.arg("approved"))
	q.where("v.ai_tool = " + q.arg("Sora"))

	if got, want := q.whereSQL(), " WHERE v.status = $1 AND v.ai_tool = $2"; got != want {
		t.Errorf("whereSQL = %q, want %q", got, want)
	}
	if len(q.args) != 2 {
		t.Errorf("args = %d, want 2", len(q.args))
	}
}

func TestQuery_EmptyWhere(t *testing.T) {
	var q query
	if got := q.whereSQL(); got != "" {
		t.Errorf("whereSQL = %q, want empty", got)
	}
}

func TestQuery_SetThenWhere(t *testing.T) {
	var q query
	q.set("title", "New")
	q.set("featured", true)
	q.where("id = " + q.arg("abc"))

	if got, want := q.setSQL(), "title = $1, featured = $2"; got != want {
		t.Errorf("setSQL = %q, want %q", got, want)
	}
	if got, want := q.whereSQL(), " WHERE id = $3"; got != want {
		t.Errorf("whereSQL = %q, want %q", got, want)
	}
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	if got, want := likePattern(`50%_off\`), `%50\%\_off\\%`; got != want {
		t.Errorf("likePattern = %q, want %q", got, want)
	}
}

func TestMapErr(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "ratings_video_id_user_id_key"}, ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "videos_creator_id_fkey"}, ErrReferenced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapErr(tt.in); !errors.Is(got, tt.want) {
				t.Errorf("mapErr(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	other := errors.New("connection reset")
	if got := mapErr(other); got != other {
		t.Errorf("unrecognised error should pass through, got %v", got)
	}
	if mapErr(nil) != nil {
		t.Error("nil should stay nil")
	}
}
