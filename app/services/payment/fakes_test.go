package payment

import (
	"context"
	"sync"
	"time"

	"VenueHub/app/common/jobqueue"
	"VenueHub/app/common/notify"
	"VenueHub/app/common/orderevents"
	"VenueHub/app/common/paygateway"
	"VenueHub/app/dal/activity"
	orderdal "VenueHub/app/dal/order"
	"VenueHub/app/dal/shop"
	userdal "VenueHub/app/dal/user"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type memActivities struct {
	activity.ActivityModel
	rows map[string]*activity.Activity
}

func (m *memActivities) FindOne(_ context.Context, id string) (*activity.Activity, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, activity.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

type memBaskets struct {
	shop.BasketModel
	mu      sync.Mutex
	rows    map[string]*shop.Basket
	ordered map[string]string
}

func (m *memBaskets) FindOne(_ context.Context, id string) (*shop.Basket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, shop.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBaskets) MarkOrdered(_ context.Context, id bson.ObjectID, pi string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.rows[id.Hex()]; ok && b.Status == shop.BasketOpen {
		b.Status = shop.BasketOrdered
		m.ordered[id.Hex()] = pi
	}
	return nil
}

// memOrders mimics the upsert keyed by the unique payment intent index.
type memOrders struct {
	orderdal.OrderModel
	mu     sync.Mutex
	rows   map[string]*orderdal.Order
	writes int
	err    error
}

func newMemOrders() *memOrders {
	return &memOrders{rows: map[string]*orderdal.Order{}}
}

func (m *memOrders) UpsertByPaymentIntent(_ context.Context, o *orderdal.Order) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	m.writes++
	cp := *o
	if prev, ok := m.rows[o.PaymentIntentID]; ok {
		cp.ID, cp.OrderNo, cp.CreatedAt = prev.ID, prev.OrderNo, prev.CreatedAt
		cp.Announced = prev.Announced
		m.rows[o.PaymentIntentID] = &cp
		return false, nil
	}
	cp.ID = bson.NewObjectID()
	cp.CreatedAt = time.Now()
	cp.Announced = false
	m.rows[o.PaymentIntentID] = &cp
	return true, nil
}

func (m *memOrders) MarkAnnounced(_ context.Context, pi string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[pi]
	if !ok {
		return orderdal.ErrNotFound
	}
	o.Announced = true
	return nil
}

func (m *memOrders) FindOneByPaymentIntent(_ context.Context, pi string) (*orderdal.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[pi]
	if !ok {
		return nil, orderdal.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

type memUsers struct {
	userdal.UserModel
	mu   sync.Mutex
	rows map[string]*userdal.User
}

func (m *memUsers) Insert(_ context.Context, u *userdal.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.Email]; ok {
		return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	}
	u.ID = bson.NewObjectID()
	cp := *u
	m.rows[u.Email] = &cp
	return nil
}

func (m *memUsers) FindOneByEmail(_ context.Context, email string) (*userdal.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[email]
	if !ok {
		return nil, userdal.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type recordingEnqueuer struct {
	mu   sync.Mutex
	jobs []string
}

func (r *recordingEnqueuer) Enqueue(_ context.Context, queue, name string, _ any, opts jobqueue.Options) (*jobqueue.JobHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, queue+"/"+name+"/"+opts.JobID)
	return &jobqueue.JobHandle{Queue: queue, Name: name, ID: opts.JobID}, nil
}

type recordingRedeemer struct {
	mu    sync.Mutex
	calls int
	seen  map[string]map[string]bool
}

func (r *recordingRedeemer) Redeem(_ context.Context, code, pi string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.seen == nil {
		r.seen = map[string]map[string]bool{}
	}
	if r.seen[code] == nil {
		r.seen[code] = map[string]bool{}
	}
	r.seen[code][pi] = true
	return nil
}

type recordingCommissions struct {
	mu   sync.Mutex
	rows map[string]int64
}

func (r *recordingCommissions) RecordCommission(_ context.Context, _ bson.ObjectID, pi, _ string, paid int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows == nil {
		r.rows = map[string]int64{}
	}
	if _, ok := r.rows[pi]; !ok {
		r.rows[pi] = paid
	}
	return nil
}

type fakeGateway struct {
	mu      sync.Mutex
	intents []paygateway.IntentParams
	err     error
}

func (g *fakeGateway) CreateIntent(_ context.Context, p paygateway.IntentParams) (*paygateway.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.intents = append(g.intents, p)
	return &paygateway.Intent{ID: "pi_new", ClientSecret: "pi_new_secret", Amount: p.Amount, Currency: p.Currency}, nil
}

func (g *fakeGateway) ChargeDetails(_ context.Context, chargeID string) (*paygateway.ChargeDetails, error) {
	return &paygateway.ChargeDetails{
		ChargeID:   chargeID,
		CardBrand:  "visa",
		CardLast4:  "4242",
		ReceiptURL: "https://pay.stripe.test/receipts/" + chargeID,
	}, nil
}

type recordingRooms struct {
	mu     sync.Mutex
	events []notify.RoomEvent
}

func (r *recordingRooms) PublishRoom(_ context.Context, _ string, ev notify.RoomEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type recordingProducer struct {
	mu     sync.Mutex
	events []orderevents.OrderPaidEvent
	err    error
}

func (p *recordingProducer) PublishOrderPaid(_ context.Context, evt orderevents.OrderPaidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

func hexID() string {
	return bson.NewObjectID().Hex()
}

