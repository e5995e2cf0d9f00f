package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/splitvault/splitvault/internal/client/client"
	"github.com/splitvault/splitvault/internal/client/config"
	"github.com/splitvault/splitvault/internal/client/models"
	"github.com/splitvault/splitvault/internal/client/services"
	"github.com/splitvault/splitvault/internal/client/session"
	"github.com/splitvault/splitvault/internal/cryptox"
	"github.com/splitvault/splitvault/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	session *session.Session
	auth    *services.AuthService
	groups  *services.GroupService
	reader  *bufio.Reader
	Mode    Mode

	mu         sync.Mutex
	lastGroups []models.Group
}

func NewApp(c *config.Config, logger logging.Logger) *App {
	apiClient := client.NewHTTPClient(c.ServerAddr)
	sess := session.New(cryptox.DefaultArgon2Params)

	return &App{
		config:  c,
		session: sess,
		auth:    services.NewAuthService(apiClient, sess, logger),
		groups:  services.NewGroupService(apiClient, sess, logger),
		reader:  bufio.NewReader(os.Stdin),
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.session.Close()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

func (a *App) getStatus() string {
	s := ""
	if name := a.session.Username(); name != "" {
		s = name + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = "(" + s + ")"
	}
	return s
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

// StartOnlineStatusWatcher periodically pings the server and flips the
// connectivity indicator shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.auth.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

// rememberGroups caches the last listed groups so other commands can refer
// to them by number.
func (a *App) rememberGroups(groups []models.Group) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastGroups = groups
}

func (a *App) groupByNumber(n int) (*models.Group, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n < 1 || n > len(a.lastGroups) {
		return nil, false
	}
	g := a.lastGroups[n-1]
	return &g, true
}

func (a *App) groupIDByNumber(n int) (uuid.UUID, bool) {
	g, ok := a.groupByNumber(n)
	if !ok {
		return uuid.Nil, false
	}
	return g.ID, true
}
