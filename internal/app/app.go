// Package app wires storage, the chat queue and the services into one
// application context.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/chat"
	"github.com/fastprodman/mcmmocredits/internal/config"
	"github.com/fastprodman/mcmmocredits/internal/services/credits"
	"github.com/fastprodman/mcmmocredits/internal/services/users"
	"github.com/fastprodman/mcmmocredits/internal/skills"
	"github.com/fastprodman/mcmmocredits/internal/storage"
	"github.com/fastprodman/mcmmocredits/internal/transaction"
)

type Config struct {
	Storage config.StorageConfig
	Skills  config.SkillsConfig
}

type App struct {
	Storage *storage.Store
	Prompts *chat.Queue[uuid.UUID]
	Skills  *skills.Memory
	Users   *users.Service
	Credits *credits.Service
	Mailbox *credits.Mailbox

	closeOnce sync.Once
}

func New(ctx context.Context, cfg Config) (*App, error) {
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	return Wire(store, cfg.Skills), nil
}

// Wire builds the services on top of an already opened store.
func Wire(store *storage.Store, sc config.SkillsConfig) *App {
	prog := skills.NewMemory(sc.LevelCap)
	prompts := chat.NewQueue[uuid.UUID]()
	mailbox := credits.NewMailbox(credits.LogNotifier{}, 0)
	us := users.New(store)

	return &App{
		Storage: store,
		Prompts: prompts,
		Skills:  prog,
		Users:   us,
		Credits: credits.New(us, transaction.NewEngine(prog), prompts, mailbox),
		Mailbox: mailbox,
	}
}

// Close disables storage. Only the first call has an effect.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.Storage.Disable()
		slog.Info("storage disabled", "type", a.Storage.Type())
	})
}
