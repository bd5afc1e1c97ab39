// Package publisher sends report figures to an MQTT broker.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
)

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "wattdash"

const defaultTimeout = 10 * time.Second

// Client is the subset of mqtt.Client the publisher uses.
type Client interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Config holds broker settings.
type Config struct {
	// Broker is host:port or a URL such as tcp://host:1883.
	Broker      string
	TopicPrefix string
	Username    string
	Password    string
	QoS         int
	Timeout     time.Duration
}

// Publisher publishes retained JSON payloads.
type Publisher struct {
	client  Client
	prefix  string
	qos     byte
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// SummaryPayload is published to <prefix>/summary.
type SummaryPayload struct {
	Selection   string    `json:"selection"`
	Records     int       `json:"records"`
	EnergyKWh   float64   `json:"energy_kwh"`
	Cost        float64   `json:"cost"`
	Currency    string    `json:"currency"`
	CostPerKWh  float64   `json:"cost_per_kwh"`
	Text        string    `json:"text"`
	PublishedAt time.Time `json:"published_at"`
}

// DevicePayload is published to <prefix>/device/<slug>.
type DevicePayload struct {
	Device      string    `json:"device"`
	EnergyKWh   float64   `json:"energy_kwh"`
	Cost        float64   `json:"cost"`
	PublishedAt time.Time `json:"published_at"`
}

// New connects to the configured broker.
func New(cfg Config, logger *zap.Logger) (*Publisher, error) {
	if strings.TrimSpace(cfg.Broker) == "" {
		return nil, fmt.Errorf("MQTT broker address is required")
	}
	if cfg.QoS < 0 || cfg.QoS > 2 {
		return nil, fmt.Errorf("MQTT qos must be 0, 1 or 2")
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(cfg.Broker))
	opts.SetClientID("wattdash-" + uuid.NewString())
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(timeoutOrDefault(cfg.Timeout))
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	p := NewWithClient(mqtt.NewClient(opts), cfg, logger)
	if err := p.wait(p.client.Connect()); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", err)
	}
	p.logger.Info("connected to MQTT broker", zap.String("broker", brokerURL(cfg.Broker)))
	return p, nil
}

// NewWithClient wraps an existing client without connecting it.
func NewWithClient(client Client, cfg Config, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := strings.Trim(strings.TrimSpace(cfg.TopicPrefix), "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &Publisher{
		client:  client,
		prefix:  prefix,
		qos:     byte(cfg.QoS),
		timeout: timeoutOrDefault(cfg.Timeout),
		logger:  logger.Named("mqtt"),
		now:     time.Now,
	}
}

// PublishReport publishes the selection summary and every device total.
// It returns the number of messages delivered.
func (p *Publisher) PublishReport(ctx context.Context, rep model.Report) (int, error) {
	published := 0
	stamp := p.now().UTC()

	summary := SummaryPayload{
		Selection:   rep.Selection,
		Records:     rep.Summary.Records,
		EnergyKWh:   rep.Summary.EnergyKWh,
		Cost:        rep.Summary.Cost,
		Currency:    model.CurrencySymbol,
		CostPerKWh:  rep.Rate,
		Text:        rep.SummaryText,
		PublishedAt: stamp,
	}
	if err := p.publishJSON(ctx, p.prefix+"/summary", summary); err != nil {
		return published, err
	}
	published++

	for _, d := range rep.DeviceEnergy {
		payload := DevicePayload{Device: d.Device, EnergyKWh: d.EnergyKWh, Cost: d.Cost, PublishedAt: stamp}
		if err := p.publishJSON(ctx, p.prefix+"/device/"+Slug(d.Device), payload); err != nil {
			return published, err
		}
		published++
	}
	return published, nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

func (p *Publisher) publishJSON(ctx context.Context, topic string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload for %s: %w", topic, err)
	}
	if err := p.wait(p.client.Publish(topic, p.qos, true, body)); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	p.logger.Debug("published", zap.String("topic", topic), zap.Int("bytes", len(body)))
	return nil
}

func (p *Publisher) wait(token mqtt.Token) error {
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("timed out after %s", p.timeout)
	}
	return token.Error()
}

// Slug turns a device name into a single topic level.
func Slug(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	slug := strings.TrimRight(b.String(), "_")
	if slug == "" {
		return "blank"
	}
	return slug
}

func brokerURL(broker string) string {
	broker = strings.TrimSpace(broker)
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}
