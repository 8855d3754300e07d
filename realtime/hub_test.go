package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTopic(t *testing.T, hub *Hub, topic string) (*websocket.Conn, func()) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	unregister := make(chan func(), 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		unregister <- hub.Register(topic, conn)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case fn := <-unregister:
		return client, fn
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber was not registered")
	}
	return nil, nil
}

func TestHubDeliversChangeToSubscribedTopic(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client, _ := dialTopic(t, hub, TopicMenu)
	require.Equal(t, 1, hub.Subscribers(TopicMenu))

	change := Change{Table: TableMenuItems, Type: ChangeUpdate, RecordID: "42"}
	require.NoError(t, hub.Publish(context.Background(), change))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, client.ReadJSON(&msg))
	assert.Equal(t, EventChange, msg.Event)

	var got Change
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, change, got)
}

func TestHubUnregisterRemovesSubscriber(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	_, unregister := dialTopic(t, hub, UserTopic("u1"))
	require.Equal(t, 1, hub.Subscribers(UserTopic("u1")))

	unregister()
	unregister()
	assert.Equal(t, 0, hub.Subscribers(UserTopic("u1")))
}

func TestRoute(t *testing.T) {
	assert.ElementsMatch(t, []string{TopicMenu, TopicAdmin},
		Route(Change{Table: TableMenuItems, Type: ChangeDelete}))
	assert.ElementsMatch(t, []string{TopicAdmin, UserTopic("u7")},
		Route(Change{Table: TableOrders, Type: ChangeInsert, OwnerID: "u7"}))
	assert.Empty(t, Route(Change{Table: "profiles"}))
}

type recordingWriter struct {
	msgs []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestKafkaPublisherKeysByRow(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaPublisher(w)
	change := Change{Table: TableOrders, Type: ChangeUpdate, RecordID: "o1", OwnerID: "u1"}
	require.NoError(t, p.Publish(context.Background(), change))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "orders.UPDATE.o1", string(w.msgs[0].Key))
	var got Change
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, change, got)
}

func TestHubDropsSubscriberThatStopsReading(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	hub.writeWait = 50 * time.Millisecond
	dialTopic(t, hub, TopicAdmin)

	// the client never reads, so its buffers fill up and a write times out
	big := strings.Repeat("x", 1<<20)
	giveUp := time.Now().Add(10 * time.Second)
	for hub.Subscribers(TopicAdmin) > 0 && time.Now().Before(giveUp) {
		hub.Notify(TopicAdmin, EventChange, big)
	}
	assert.Equal(t, 0, hub.Subscribers(TopicAdmin))
}

type failingReader struct {
	calls  int
	closed bool
}

func (r *failingReader) ReadMessage(context.Context) (kafka.Message, error) {
	r.calls++
	return kafka.Message{}, errors.New("broker unavailable")
}

func (r *failingReader) Close() error {
	r.closed = true
	return nil
}

func TestRelayBacksOffOnReadErrors(t *testing.T) {
	reader := &failingReader{}
	relay := &Relay{
		reader:     reader,
		hub:        NewHub(zerolog.Nop()),
		minBackoff: 20 * time.Millisecond,
		maxBackoff: 80 * time.Millisecond,
		log:        zerolog.Nop(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, relay.Run(ctx))
	// 20+40+80+80 ms fit four retries in the window; a tight loop would make thousands
	assert.GreaterOrEqual(t, reader.calls, 2)
	assert.LessOrEqual(t, reader.calls, 8)
	assert.True(t, reader.closed)
}

type scriptedReader struct {
	msgs   []kafka.Message
	cancel context.CancelFunc
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *scriptedReader) Close() error { return nil }

func TestRelayForwardsChangesToHub(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client, _ := dialTopic(t, hub, TopicMenu)

	change := Change{Table: TableCategories, Type: ChangeInsert, RecordID: "c1"}
	value, err := json.Marshal(change)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	relay := &Relay{
		reader:     &scriptedReader{msgs: []kafka.Message{{Value: value}}, cancel: cancel},
		hub:        hub,
		minBackoff: time.Millisecond,
		maxBackoff: time.Millisecond,
		log:        zerolog.Nop(),
	}
	require.NoError(t, relay.Run(ctx))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, client.ReadJSON(&msg))
	var got Change
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, change, got)
}
