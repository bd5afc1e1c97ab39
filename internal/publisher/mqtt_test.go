package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
)

type fakeToken struct {
	err      error
	timedOut bool
}

func (t *fakeToken) Wait() bool { return !t.timedOut }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.timedOut }
func (t *fakeToken) Error() error { return t.err }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	connected bool
	messages  []message
	failOn    string
	timeoutOn string
}

func (c *fakeClient) Connect() mqtt.Token {
	c.connected = true
	return &fakeToken{}
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	if topic == c.failOn {
		return &fakeToken{err: errors.New("broker rejected")}
	}
	if topic == c.timeoutOn {
		return &fakeToken{timedOut: true}
	}
	c.messages = append(c.messages, message{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return &fakeToken{}
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Disconnect(uint) { c.connected = false }

func sampleReport() model.Report {
	return model.Report{
		Selection: "A",
		Rate:      0.15,
		DeviceEnergy: []model.DeviceTotal{
			{Device: "Living Room AC", EnergyKWh: 5, Cost: 0.75},
			{Device: "", EnergyKWh: 2, Cost: 0.3},
		},
		Summary:     model.Summary{Records: 2, EnergyKWh: 5, Cost: 0.75},
		SummaryText: "Total Energy Used: 5.00 kWh | Total Cost: $0.75",
	}
}

func TestPublishReport(t *testing.T) {
	client := &fakeClient{connected: true}
	p := NewWithClient(client, Config{TopicPrefix: "/home/energy/", QoS: 1}, nil)
	p.now = func() time.Time { return time.Date(2025, 1, 3, 8, 0, 0, 0, time.UTC) }

	n, err := p.PublishReport(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, client.messages, 3)

	assert.Equal(t, "home/energy/summary", client.messages[0].topic)
	assert.Equal(t, "home/energy/device/living_room_ac", client.messages[1].topic)
	assert.Equal(t, "home/energy/device/blank", client.messages[2].topic)
	for _, m := range client.messages {
		assert.True(t, m.retained)
		assert.Equal(t, byte(1), m.qos)
	}

	var summary SummaryPayload
	require.NoError(t, json.Unmarshal(client.messages[0].payload, &summary))
	assert.Equal(t, "A", summary.Selection)
	assert.InDelta(t, 5.0, summary.EnergyKWh, 1e-9)
	assert.Equal(t, "$", summary.Currency)
	assert.Equal(t, "Total Energy Used: 5.00 kWh | Total Cost: $0.75", summary.Text)

	var device DevicePayload
	require.NoError(t, json.Unmarshal(client.messages[1].payload, &device))
	assert.Equal(t, "Living Room AC", device.Device)
	assert.InDelta(t, 0.75, device.Cost, 1e-9)

	p.Close()
	assert.False(t, client.connected)
}

func TestPublishReportErrors(t *testing.T) {
	client := &fakeClient{connected: true, failOn: "wattdash/device/blank"}
	p := NewWithClient(client, Config{}, nil)
	n, err := p.PublishReport(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker rejected")
	assert.Equal(t, 2, n)

	client = &fakeClient{connected: true, timeoutOn: "wattdash/summary"}
	p = NewWithClient(client, Config{Timeout: time.Millisecond}, nil)
	_, err = p.PublishReport(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestPublishReportCanceled(t *testing.T) {
	client := &fakeClient{connected: true}
	p := NewWithClient(client, Config{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.PublishReport(ctx, sampleReport())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, client.messages)
}

func TestNewRequiresBroker(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.Error(t, err)
	_, err = New(Config{Broker: "localhost:1883", QoS: 3}, nil)
	assert.Error(t, err)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "washing_machine", Slug("Washing Machine"))
	assert.Equal(t, "tv_2", Slug("  TV #2 "))
	assert.Equal(t, "blank", Slug(""))
	assert.Equal(t, "blank", Slug("+/#"))
}

func TestBrokerURL(t *testing.T) {
	assert.Equal(t, "tcp://localhost:1883", brokerURL("localhost:1883"))
	assert.Equal(t, "ssl://broker:8883", brokerURL("ssl://broker:8883"))
}
