// Package billing prices food orders against the mess menu and tracks hostel fee
// payments. Amounts are integer minor currency units.
package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
	"github.com/jrsteele09/go-hostel-server/store"
	"github.com/pkg/errors"
)

const DefaultTermFee int64 = 4500000

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

type MenuItem struct {
	Name  string `json:"name"`
	Meal  string `json:"meal"`
	Price int64  `json:"price"`
}

// DefaultMenu is the mess menu served when none is configured.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{Name: "Idli Sambar", Meal: "breakfast", Price: 4000},
		{Name: "Poha", Meal: "breakfast", Price: 3500},
		{Name: "Veg Thali", Meal: "lunch", Price: 9000},
		{Name: "Chicken Biryani", Meal: "lunch", Price: 14000},
		{Name: "Masala Chai", Meal: "snacks", Price: 1500},
		{Name: "Samosa", Meal: "snacks", Price: 2000},
		{Name: "Dal Khichdi", Meal: "dinner", Price: 8000},
		{Name: "Paneer Roti", Meal: "dinner", Price: 11000},
	}
}

type ItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type OrderItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

type Order struct {
	ID        string      `json:"id"`
	StudentID string      `json:"studentId"`
	Items     []OrderItem `json:"items"`
	Total     int64       `json:"total"`
	CreatedAt time.Time   `json:"createdAt"`
}

type Payment struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	Amount    int64     `json:"amount"`
	Reference string    `json:"reference"`
	PaidAt    time.Time `json:"paidAt"`
}

// Balance is what a student owes: the term fee plus food orders, less payments.
type Balance struct {
	TermFee int64 `json:"termFee"`
	Orders  int64 `json:"orders"`
	Paid    int64 `json:"paid"`
	Due     int64 `json:"due"`
}

type Service struct {
	menu     []MenuItem
	prices   map[string]MenuItem
	termFee  int64
	orders   *store.Collection[Order]
	payments *store.Collection[Payment]
	nowFunc  func() time.Time
}

type ServiceOption func(*Service)

func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func WithMenu(menu []MenuItem) ServiceOption {
	return func(s *Service) {
		s.menu = menu
	}
}

func WithTermFee(fee int64) ServiceOption {
	return func(s *Service) {
		s.termFee = fee
	}
}

func NewService(kv store.KV, options ...ServiceOption) *Service {
	s := &Service{
		menu:     DefaultMenu(),
		termFee:  DefaultTermFee,
		orders:   store.NewCollection[Order](kv, "food_order"),
		payments: store.NewCollection[Payment](kv, "fee_payment"),
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	s.prices = make(map[string]MenuItem, len(s.menu))
	for _, item := range s.menu {
		s.prices[strings.ToLower(item.Name)] = item
	}
	return s
}

func (s *Service) Menu() []MenuItem {
	menu := make([]MenuItem, len(s.menu))
	copy(menu, s.menu)
	return menu
}

// PlaceOrder prices every item from the menu; client supplied prices are never
// trusted.
func (s *Service) PlaceOrder(ctx context.Context, studentID string, items []ItemRequest) (*Order, error) {
	order := &Order{
		ID:        uuid.New().String(),
		StudentID: studentID,
		Items:     make([]OrderItem, 0, len(items)),
		CreatedAt: s.nowFunc(),
	}
	for _, it := range items {
		menuItem, ok := s.prices[strings.ToLower(strings.TrimSpace(it.Name))]
		if !ok {
			return nil, fmt.Errorf("%q: %w", it.Name, apperrors.ErrUnknownMenuItem)
		}
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		order.Items = append(order.Items, OrderItem{Name: menuItem.Name, Quantity: it.Quantity, UnitPrice: menuItem.Price})
		order.Total += menuItem.Price * int64(it.Quantity)
	}

	if err := s.orders.Put(ctx, store.GroupID(studentID, order.ID), order); err != nil {
		return nil, errors.Wrap(err, "[PlaceOrder] failed to store order")
	}
	return order, nil
}

// Orders lists a student's food orders, newest first.
func (s *Service) Orders(ctx context.Context, studentID string) ([]Order, error) {
	list, err := s.orders.ListGroup(ctx, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "[Orders] failed to list orders")
	}
	out := make([]Order, 0, len(list))
	for _, o := range list {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Service) Pay(ctx context.Context, studentID string, amount int64) (*Payment, error) {
	if amount <= 0 {
		return nil, errors.New("payment amount must be positive")
	}
	id := uuid.New()
	payment := &Payment{
		ID:        id.String(),
		StudentID: studentID,
		Amount:    amount,
		Reference: "PAY-" + strings.ToUpper(id.String()[:8]),
		PaidAt:    s.nowFunc(),
	}
	if err := s.payments.Put(ctx, store.GroupID(studentID, payment.ID), payment); err != nil {
		return nil, errors.Wrap(err, "[Pay] failed to store payment")
	}
	return payment, nil
}

func (s *Service) Payments(ctx context.Context, studentID string) ([]Payment, error) {
	list, err := s.payments.ListGroup(ctx, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "[Payments] failed to list payments")
	}
	out := make([]Payment, 0, len(list))
	for _, p := range list {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

func (s *Service) Balance(ctx context.Context, studentID string) (*Balance, error) {
	orders, err := s.Orders(ctx, studentID)
	if err != nil {
		return nil, err
	}
	payments, err := s.Payments(ctx, studentID)
	if err != nil {
		return nil, err
	}

	b := &Balance{TermFee: s.termFee}
	for _, o := range orders {
		b.Orders += o.Total
	}
	for _, p := range payments {
		b.Paid += p.Amount
	}
	b.Due = b.TermFee + b.Orders - b.Paid
	return b, nil
}
