package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avelkov/dreamchat/internal/client/api"
	"github.com/avelkov/dreamchat/internal/logging"
	"github.com/avelkov/dreamchat/internal/models"
)

// ChatState is the state of one active conversation. Messages are always
// kept sorted ascending by creation time after any mutation.
type ChatState struct {
	Room              *models.ChatRoom
	Messages          []models.Message
	Input             string
	Loading           bool
	Sending           bool
	GeneratingImage   bool
	GeneratedImageURL string
	PremiumRequired   bool
	ErrorMessage      string
}

// Persona reports the room's current persona, defaulting when no room is
// loaded yet.
func (s ChatState) Persona() models.BotPersona {
	if s.Room == nil {
		return models.DefaultPersona
	}
	return s.Room.BotSettings.Persona()
}

// ChatEvent is the closed set of events the chat session reduces.
type ChatEvent interface{ chatEvent() }

// ChatRoomRequested loads today's room and its full message history,
// replacing the local list. On failure the prior state stays untouched
// apart from the error slot.
type ChatRoomRequested struct{}

// ChatInputChanged updates the input buffer.
type ChatInputChanged struct{ Text string }

// ChatSendRequested sends the current input buffer. Empty or
// whitespace-only input is ignored entirely: no state change, no network
// call. A send already in flight blocks re-entry.
type ChatSendRequested struct{}

// ChatPersonaSelected updates the bot persona of the active room. Success
// triggers a full room reload rather than a local patch.
type ChatPersonaSelected struct{ Persona models.BotPersona }

// ChatImageRequested asks the server to illustrate the conversation. Only
// meaningful once a room is loaded.
type ChatImageRequested struct{}

// ChatDismissError clears the error slot.
type ChatDismissError struct{}

type chatRoomLoaded struct{ detail *models.RoomDetail }
type chatRoomLoadFailed struct{ err error }
type chatSendSucceeded struct{ result *models.SendMessageResult }
type chatSendFailed struct{ err error }
type chatTypingTicked struct{ messageID string }
type chatPersonaUpdateFailed struct{ err error }
type chatImageGenerated struct{ result *models.ImageGeneration }
type chatImageFailed struct{ err error }

func (ChatRoomRequested) chatEvent()       {}
func (ChatInputChanged) chatEvent()        {}
func (ChatSendRequested) chatEvent()       {}
func (ChatPersonaSelected) chatEvent()     {}
func (ChatImageRequested) chatEvent()      {}
func (ChatDismissError) chatEvent()        {}
func (chatRoomLoaded) chatEvent()          {}
func (chatRoomLoadFailed) chatEvent()      {}
func (chatSendSucceeded) chatEvent()       {}
func (chatSendFailed) chatEvent()          {}
func (chatTypingTicked) chatEvent()        {}
func (chatPersonaUpdateFailed) chatEvent() {}
func (chatImageGenerated) chatEvent()      {}
func (chatImageFailed) chatEvent()         {}

type chatEffect func(ctx context.Context) ChatEvent

// RevealObserver is notified after each typing-reveal step with the
// currently displayed prefix. complete marks the final step.
type RevealObserver func(messageID, displayed string, complete bool)

type revealNote struct {
	messageID string
	displayed string
	complete  bool
}

// TypingIntervals are the per-character reveal delays. The delay before a
// character depends on that character: Hangul gets the longer interval.
type TypingIntervals struct {
	Hangul  time.Duration
	Default time.Duration
}

// ChatSession owns one active conversation: the message list, optimistic
// sends, the per-message typing-reveal machines, persona selection, and
// image generation.
type ChatSession struct {
	gw    api.Gateway
	log   logging.Logger
	ticks TypingIntervals

	// seams for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool

	mu       sync.Mutex
	wg       sync.WaitGroup
	state    ChatState
	onReveal RevealObserver
	pending  []revealNote
}

func NewChatSession(gw api.Gateway, log logging.Logger, ticks TypingIntervals) *ChatSession {
	if ticks.Hangul <= 0 {
		ticks.Hangul = 80 * time.Millisecond
	}
	if ticks.Default <= 0 {
		ticks.Default = 30 * time.Millisecond
	}
	return &ChatSession{
		gw:    gw,
		log:   log,
		ticks: ticks,
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// SetRevealObserver registers a callback for typing-reveal progress. The
// callback runs outside the session lock; it may call State.
func (s *ChatSession) SetRevealObserver(fn RevealObserver) {
	s.mu.Lock()
	s.onReveal = fn
	s.mu.Unlock()
}

func (s *ChatSession) Dispatch(ctx context.Context, ev ChatEvent) {
	s.mu.Lock()
	effects := s.reduce(ev)
	notes, observer := s.pending, s.onReveal
	s.pending = nil
	s.mu.Unlock()

	if observer != nil {
		for _, n := range notes {
			observer(n.messageID, n.displayed, n.complete)
		}
	}

	for _, eff := range effects {
		s.wg.Add(1)
		go func(run chatEffect) {
			defer s.wg.Done()
			if next := run(ctx); next != nil {
				s.Dispatch(ctx, next)
			}
		}(eff)
	}
}

// Wait blocks until all outstanding effects, including scheduled
// typing-reveal ticks, have settled.
func (s *ChatSession) Wait() {
	s.wg.Wait()
}

// State returns a snapshot with a defensive copy of the message list.
func (s *ChatSession) State() ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.Room != nil {
		r := *st.Room
		st.Room = &r
	}
	st.Messages = append([]models.Message(nil), st.Messages...)
	return st
}

func (s *ChatSession) reduce(ev ChatEvent) []chatEffect {
	switch ev := ev.(type) {
	case ChatRoomRequested:
		if s.state.Loading {
			return nil
		}
		s.state.Loading = true
		s.state.ErrorMessage = ""
		return []chatEffect{func(ctx context.Context) ChatEvent {
			detail, err := s.gw.TodaysRoom(ctx)
			if err != nil {
				return chatRoomLoadFailed{err: err}
			}
			return chatRoomLoaded{detail: detail}
		}}

	case chatRoomLoaded:
		s.state.Loading = false
		room := ev.detail.ChatRoom
		s.state.Room = &room
		s.state.Messages = append([]models.Message(nil), ev.detail.Messages...)
		models.SortMessages(s.state.Messages)
		return nil

	case chatRoomLoadFailed:
		// prior room and messages stay untouched
		s.log.Warn(context.Background(), "loading chat room failed", "err", ev.err)
		s.state.Loading = false
		s.state.ErrorMessage = errText(ev.err)
		return nil

	case ChatInputChanged:
		s.state.Input = ev.Text
		return nil

	case ChatSendRequested:
		return s.reduceSend()

	case chatSendSucceeded:
		return s.reduceSendSucceeded(ev.result)

	case chatSendFailed:
		// the optimistic user message stays visible
		s.state.Sending = false
		s.state.ErrorMessage = errText(ev.err)
		return nil

	case chatTypingTicked:
		return s.reduceTypingTick(ev.messageID)

	case ChatPersonaSelected:
		if s.state.Room == nil {
			s.state.ErrorMessage = "no active chat room"
			return nil
		}
		roomID, persona := s.state.Room.ID, ev.Persona
		return []chatEffect{func(ctx context.Context) ChatEvent {
			if err := s.gw.UpdateBotPersona(ctx, roomID, persona); err != nil {
				return chatPersonaUpdateFailed{err: err}
			}
			// server-confirmed settings are picked up by a full reload
			return ChatRoomRequested{}
		}}

	case chatPersonaUpdateFailed:
		s.state.ErrorMessage = errText(ev.err)
		return nil

	case ChatImageRequested:
		if s.state.Room == nil || s.state.GeneratingImage {
			return nil
		}
		s.state.GeneratingImage = true
		s.state.PremiumRequired = false
		s.state.ErrorMessage = ""
		return []chatEffect{func(ctx context.Context) ChatEvent {
			result, err := s.gw.GenerateImage(ctx)
			if err != nil {
				return chatImageFailed{err: err}
			}
			return chatImageGenerated{result: result}
		}}

	case chatImageGenerated:
		s.state.GeneratingImage = false
		if ev.result.ImageURL != "" {
			s.state.GeneratedImageURL = ev.result.ImageURL
			return nil
		}
		msg := ev.result.Message
		if msg == "" {
			msg = "image generation failed"
		}
		s.state.ErrorMessage = msg
		return nil

	case chatImageFailed:
		s.state.GeneratingImage = false
		if errors.Is(ev.err, api.ErrPremiumRequired) {
			s.state.PremiumRequired = true
			s.state.ErrorMessage = "image generation requires a premium account"
			return nil
		}
		s.state.ErrorMessage = errText(ev.err)
		return nil

	case ChatDismissError:
		s.state.ErrorMessage = ""
		return nil
	}
	return nil
}

func (s *ChatSession) reduceSend() []chatEffect {
	if s.state.Room == nil || s.state.Sending {
		return nil
	}
	content := strings.TrimSpace(s.state.Input)
	if content == "" {
		// no state change at all for blank input
		return nil
	}

	s.state.Input = ""
	s.state.Sending = true
	s.state.ErrorMessage = ""

	roomID := s.state.Room.ID
	s.state.Messages = append(s.state.Messages, models.Message{
		ID:         models.TempIDPrefix + uuid.NewString(),
		ChatRoomID: roomID,
		Sender:     models.SenderUser,
		Content:    content,
		CreatedAt:  s.now(),
	})

	return []chatEffect{func(ctx context.Context) ChatEvent {
		result, err := s.gw.SendMessage(ctx, roomID, content)
		if err != nil {
			return chatSendFailed{err: err}
		}
		return chatSendSucceeded{result: result}
	}}
}

func (s *ChatSession) reduceSendSucceeded(result *models.SendMessageResult) []chatEffect {
	s.state.Sending = false

	// the most recent temp user message becomes the server's canonical echo
	for i := len(s.state.Messages) - 1; i >= 0; i-- {
		m := s.state.Messages[i]
		if m.Sender == models.SenderUser && m.IsTemp() {
			s.state.Messages[i] = result.UserMessage
			break
		}
	}

	bot := result.BotMessage
	runes := []rune(bot.Content)
	if len(runes) == 0 {
		bot.IsTypingComplete = true
	} else {
		bot.IsTyping = true
	}
	s.state.Messages = append(s.state.Messages, bot)
	models.SortMessages(s.state.Messages)

	if len(runes) == 0 {
		return nil
	}
	return []chatEffect{s.tickEffect(bot.ID, s.delayFor(runes[0]))}
}

// reduceTypingTick reveals one more character of the owning message. A tick
// whose message is gone, or no longer revealing, is a no-op; that is the
// implicit cancellation of the sub-machine.
func (s *ChatSession) reduceTypingTick(messageID string) []chatEffect {
	i := s.findMessage(messageID)
	if i < 0 {
		return nil
	}
	m := &s.state.Messages[i]
	if !m.IsTyping || m.IsTypingComplete {
		return nil
	}

	runes := []rune(m.Content)
	shown := []rune(m.DisplayedContent)
	if len(shown) >= len(runes) {
		m.DisplayedContent = m.Content
		m.IsTypingComplete = true
		m.IsTyping = false
		return nil
	}

	shown = append(shown, runes[len(shown)])
	m.DisplayedContent = string(shown)

	if len(shown) == len(runes) {
		m.DisplayedContent = m.Content
		m.IsTypingComplete = true
		m.IsTyping = false
		s.pending = append(s.pending, revealNote{messageID: messageID, displayed: m.DisplayedContent, complete: true})
		return nil
	}

	s.pending = append(s.pending, revealNote{messageID: messageID, displayed: m.DisplayedContent})
	return []chatEffect{s.tickEffect(messageID, s.delayFor(runes[len(shown)]))}
}

func (s *ChatSession) tickEffect(messageID string, d time.Duration) chatEffect {
	return func(ctx context.Context) ChatEvent {
		if !s.sleep(ctx, d) {
			return nil
		}
		return chatTypingTicked{messageID: messageID}
	}
}

func (s *ChatSession) delayFor(r rune) time.Duration {
	if isHangul(r) {
		return s.ticks.Hangul
	}
	return s.ticks.Default
}

func (s *ChatSession) findMessage(id string) int {
	for i := range s.state.Messages {
		if s.state.Messages[i].ID == id {
			return i
		}
	}
	return -1
}
