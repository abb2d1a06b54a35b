package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/ppiankov/persona/internal/llm"
	"github.com/ppiankov/persona/internal/locale"
	"github.com/ppiankov/persona/internal/model"
	"github.com/ppiankov/persona/internal/present"
	"github.com/ppiankov/persona/internal/resolve"
)

// Resolver resolves a name into a profile
type Resolver interface {
	Resolve(ctx context.Context, name string) (*model.Profile, error)
}

// Digester writes optional prose digests
type Digester interface {
	IsEnabled() bool
	Digest(ctx context.Context, p *model.Profile, language string) (*llm.Digest, error)
}

// Options configures a Bot
type Options struct {
	API         *API
	Resolver    Resolver
	Digester    Digester // Optional
	Locale      locale.Locale
	Sessions    *Sessions
	PollTimeout time.Duration
	Logger      *log.Logger
}

// Bot handles Telegram updates
type Bot struct {
	api         *API
	resolver    Resolver
	digester    Digester
	loc         locale.Locale
	renderer    *present.Renderer
	sessions    *Sessions
	pollTimeout time.Duration
	logger      *log.Logger

	locksMu   sync.Mutex
	chatLocks map[int64]*chatLock // Only chats with a handler running or waiting
	wg        sync.WaitGroup
}

// chatLock serializes one chat's updates. refs counts holders and waiters.
type chatLock struct {
	mu   sync.Mutex
	refs int
}

// retryDelay is the pause after a failed poll
var retryDelay = 5 * time.Second

// New creates a bot
func New(opts Options) *Bot {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Sessions == nil {
		opts.Sessions = NewSessions(0)
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 30 * time.Second
	}
	return &Bot{
		api:         opts.API,
		resolver:    opts.Resolver,
		digester:    opts.Digester,
		loc:         opts.Locale,
		renderer:    present.NewRenderer(opts.Locale, present.FormatHTML),
		sessions:    opts.Sessions,
		pollTimeout: opts.PollTimeout,
		logger:      opts.Logger,
		chatLocks:   make(map[int64]*chatLock),
	}
}

// Run long-polls until ctx is done, then waits for in-flight updates
func (b *Bot) Run(ctx context.Context) error {
	if b.api == nil || b.api.token == "" {
		return fmt.Errorf("telegram token not set")
	}
	defer b.wg.Wait()

	b.logger.Info("bot started", "locale", b.loc.Code, "digest", b.digestEnabled())

	offset := 0
	for {
		if ctx.Err() != nil {
			b.logger.Info("bot stopped")
			return nil
		}

		updates, err := b.api.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			b.logger.Error("poll failed", "error", err)
			sleep(ctx, retryDelay)
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			b.wg.Add(1)
			go func(u Update) {
				defer b.wg.Done()
				b.HandleUpdate(ctx, u)
			}(u)
		}
	}
}

// HandleUpdate processes one update. Updates of the same chat are serialized.
func (b *Bot) HandleUpdate(ctx context.Context, u Update) {
	switch {
	case u.Message != nil:
		unlock := b.lockChat(u.Message.Chat.ID)
		defer unlock()
		b.handleMessage(ctx, u.Message)
	case u.CallbackQuery != nil:
		chatID := u.CallbackQuery.From.ID
		if u.CallbackQuery.Message != nil {
			chatID = u.CallbackQuery.Message.Chat.ID
		}
		unlock := b.lockChat(chatID)
		defer unlock()
		b.handleCallback(ctx, chatID, u.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	sess := b.sessions.Get(chatID)
	logger := b.logger.With("chat", chatID, "state", sess.State)
	logger.Debug("message received", "text", text)

	labels := b.loc.Labels
	switch {
	case isCommand(text, "start"):
		b.send(ctx, chatID, html.EscapeString(b.loc.Messages.Welcome), mainKeyboard(b.loc))

	case isCommand(text, "help") || matches(text, labels.HelpBtn):
		b.send(ctx, chatID, html.EscapeString(b.loc.Messages.Help), nil)

	case sess.State == StateAwaitingName && (isCommand(text, "cancel") || matches(text, labels.Cancel)):
		b.sessions.Clear(chatID)
		b.send(ctx, chatID, html.EscapeString(b.loc.Messages.Cancelled), mainKeyboard(b.loc))

	case isCommand(text, "find") || matches(text, labels.Search):
		sess.State = StateAwaitingName
		b.sessions.Save(chatID, sess)
		b.send(ctx, chatID, html.EscapeString(b.loc.Messages.AskName), cancelKeyboard(b.loc))

	case sess.State == StateAwaitingName:
		b.search(ctx, chatID, text, logger)

	default:
		logger.Debug("message ignored")
	}
}

func (b *Bot) search(ctx context.Context, chatID int64, name string, logger *log.Logger) {
	b.send(ctx, chatID, html.EscapeString(fmt.Sprintf(b.loc.Messages.Searching, name)), nil)

	profile, err := b.resolver.Resolve(ctx, name)
	if err != nil {
		logger.Info("lookup failed", "name", name, "error", err)
		b.sessions.Clear(chatID)
		b.send(ctx, chatID, html.EscapeString(resolve.Message(b.loc, err)), mainKeyboard(b.loc))
		return
	}

	b.sessions.Save(chatID, &Session{State: StateViewing, Profile: profile})

	card := b.renderer.Card(profile)
	keyboard := moreInfoKeyboard(b.renderer, b.loc, b.digestEnabled())
	if profile.ImageURL == "" {
		b.send(ctx, chatID, card, keyboard)
		return
	}

	caption := card
	if len([]rune(caption)) > captionLimit {
		caption = ""
	}
	if err := b.api.SendPhoto(ctx, chatID, profile.ImageURL, caption, keyboard); err != nil {
		// Telegram rejects some image URLs; the card still goes out as text
		logger.Warn("send photo failed", "url", profile.ImageURL, "error", err)
		b.send(ctx, chatID, card, keyboard)
		return
	}
	if caption == "" {
		b.send(ctx, chatID, card, keyboard)
	}
}

func (b *Bot) handleCallback(ctx context.Context, chatID int64, cb *CallbackQuery) {
	logger := b.logger.With("chat", chatID, "callback", cb.Data)
	defer func() {
		if err := b.api.AnswerCallbackQuery(ctx, cb.ID); err != nil {
			logger.Warn("answer callback failed", "error", err)
		}
	}()

	sess := b.sessions.Get(chatID)
	if sess.Profile == nil {
		b.send(ctx, chatID, html.EscapeString(b.loc.Messages.NoProfile), mainKeyboard(b.loc))
		return
	}
	b.sessions.Save(chatID, sess)

	if cb.Data == CallbackDigest {
		b.digest(ctx, chatID, sess.Profile, logger)
		return
	}

	view, err := present.ParseView(cb.Data)
	if err != nil {
		logger.Debug("unknown callback")
		return
	}
	b.send(ctx, chatID, b.renderer.View(view, sess.Profile), nil)
}

func (b *Bot) digest(ctx context.Context, chatID int64, p *model.Profile, logger *log.Logger) {
	if !b.digestEnabled() {
		b.send(ctx, chatID, html.EscapeString(b.loc.Messages.DigestOff), nil)
		return
	}

	d, err := b.digester.Digest(ctx, p, b.loc.Code)
	if err != nil {
		if !errors.Is(err, llm.ErrDisabled) {
			logger.Warn("digest failed", "error", err)
		}
		b.send(ctx, chatID, html.EscapeString(b.loc.Messages.DigestFail), nil)
		return
	}
	b.send(ctx, chatID, "<b>"+html.EscapeString(b.loc.Labels.Digest)+"</b>\n\n"+html.EscapeString(d.Text), nil)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, markup any) {
	if err := b.api.SendMessage(ctx, chatID, text, markup); err != nil {
		b.logger.Error("send message failed", "chat", chatID, "error", err)
	}
}

func (b *Bot) digestEnabled() bool {
	return b.digester != nil && b.digester.IsEnabled()
}

func (b *Bot) lockChat(chatID int64) func() {
	b.locksMu.Lock()
	l, ok := b.chatLocks[chatID]
	if !ok {
		l = &chatLock{}
		b.chatLocks[chatID] = l
	}
	l.refs++
	b.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		b.locksMu.Lock()
		defer b.locksMu.Unlock()
		l.refs--
		if l.refs == 0 {
			delete(b.chatLocks, chatID)
		}
	}
}

// lockedChats returns the number of chats with a handler running or waiting
func (b *Bot) lockedChats() int {
	b.locksMu.Lock()
	defer b.locksMu.Unlock()
	return len(b.chatLocks)
}

// isCommand matches "/name" and "/name@botname", with or without arguments
func isCommand(text, name string) bool {
	if !strings.HasPrefix(text, "/") {
		return false
	}
	cmd := strings.Fields(text)[0][1:]
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.EqualFold(cmd, name)
}

func matches(text, label string) bool {
	return label != "" && strings.EqualFold(strings.TrimSpace(text), label)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
