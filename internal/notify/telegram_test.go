package notify

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabsrs/pkg/models"
)

// botServer fakes the Bot API; the result object satisfies both getMe and sendMessage
type botServer struct {
	mu       sync.Mutex
	methods  []string
	messages []string
	fail     bool
}

func (b *botServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	b.mu.Lock()
	defer b.mu.Unlock()

	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	b.methods = append(b.methods, method)
	w.Header().Set("Content-Type", "application/json")
	if method == "sendMessage" {
		b.messages = append(b.messages, r.PostForm.Get("chat_id")+":"+r.PostForm.Get("text"))
		if b.fail {
			w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`))
			return
		}
	}
	w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"srs","username":"srs_bot","message_id":7,"chat":{"id":42,"type":"private"}}}`))
}

func newNotifier(t *testing.T, srv *botServer) *TelegramNotifier {
	t.Helper()
	server := httptest.NewServer(srv)
	t.Cleanup(server.Close)

	n, err := NewTelegramNotifierWithClient("123:abc", server.URL+"/bot%s/%s", server.Client(), zerolog.Nop())
	require.NoError(t, err)
	return n
}

func TestSendReminder(t *testing.T) {
	srv := &botServer{}
	n := newNotifier(t, srv)

	err := n.SendReminder(context.Background(), models.User{ID: 3, ChatID: 42}, 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"getMe", "sendMessage"}, srv.methods)
	require.Len(t, srv.messages, 1)
	assert.Equal(t, "42:"+ReminderText(7), srv.messages[0])
}

func TestSendReminderAPIError(t *testing.T) {
	srv := &botServer{fail: true}
	n := newNotifier(t, srv)

	err := n.SendReminder(context.Background(), models.User{ID: 3, ChatID: 42}, 1)
	assert.ErrorContains(t, err, "blocked")
}

func TestSendReminderCancelled(t *testing.T) {
	srv := &botServer{}
	n := newNotifier(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.SendReminder(ctx, models.User{ID: 3, ChatID: 42}, 1), context.Canceled)
	assert.Empty(t, srv.messages)
}

func TestNewTelegramNotifierRequiresToken(t *testing.T) {
	_, err := NewTelegramNotifier("", zerolog.Nop())
	assert.Error(t, err)
}

func TestReminderText(t *testing.T) {
	assert.Contains(t, ReminderText(1), "1 word ")
	assert.Contains(t, ReminderText(5), "5 words")
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := LogNotifier{Logger: zerolog.New(&buf)}
	require.NoError(t, n.SendReminder(context.Background(), models.User{ID: 1, ChatID: 9}, 2))
	assert.Contains(t, buf.String(), `"chat_id":9`)
}
