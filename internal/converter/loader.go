package converter

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/future"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

// Loader produces the users to convert.
type Loader interface {
	Load(ctx context.Context) ([]user.User, error)
}

// CSVLoader reads users from a header-less file with one user per line:
//
//	069a79f4-44e9-4726-a5be-fca90e38aaf5,Notch,9999,100
//
// Lines that do not hold exactly these four valid fields are skipped.
type CSVLoader struct {
	Path string
}

func (l CSVLoader) Load(_ context.Context) ([]user.User, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return readCSV(f)
}

func readCSV(r io.Reader) ([]user.User, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var users []user.User

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var perr *csv.ParseError
		if errors.As(err, &perr) {
			slog.Warn("skipping malformed csv line", "line", perr.Line, "error", err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := cr.FieldPos(0)

		u, err := parseRecord(rec)
		if err != nil {
			slog.Warn("skipping malformed csv line", "line", line, "error", err)
			continue
		}

		users = append(users, u)
	}

	return users, nil
}

func parseRecord(rec []string) (user.User, error) {
	if len(rec) != 4 {
		return user.User{}, fmt.Errorf("want 4 fields, got %d", len(rec))
	}

	id, err := uuid.Parse(strings.TrimSpace(rec[0]))
	if err != nil {
		return user.User{}, fmt.Errorf("parse uuid: %w", err)
	}

	name := strings.TrimSpace(rec[1])
	if name == "" {
		return user.User{}, errors.New("empty username")
	}

	credits, err := nonNegative(rec[2])
	if err != nil {
		return user.User{}, fmt.Errorf("parse credits: %w", err)
	}

	redeemed, err := nonNegative(rec[3])
	if err != nil {
		return user.User{}, fmt.Errorf("parse redeemed: %w", err)
	}

	return user.New(id, name).WithCredits(credits).WithRedeemed(redeemed), nil
}

func nonNegative(raw string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}

	return int(n), nil
}

// Source is a storage whose users can be listed.
type Source interface {
	AllUsers(ctx context.Context) *future.Future[[]user.User]
}

// StorageLoader copies every user of another storage.
type StorageLoader struct {
	Source Source
}

func (l StorageLoader) Load(ctx context.Context) ([]user.User, error) {
	users, err := l.Source.AllUsers(ctx).Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("load source users: %w", err)
	}

	return users, nil
}
