package models

import (
	"errors"
	"testing"
	"time"
)

func pendingPayment(t *testing.T, method PaymentMethod, amount string) *Payment {
	t.Helper()
	p, err := NewPayment(1, dec(amount), method)
	if err != nil {
		t.Fatalf("NewPayment: %v", err)
	}
	return p
}

func TestNewPaymentRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []string{"0", "-3.50"} {
		if _, err := NewPayment(1, dec(amount), PaymentMethodCash); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("amount %s: err = %v", amount, err)
		}
	}
}

func TestProcessCash(t *testing.T) {
	tests := []struct {
		name       string
		method     PaymentMethod
		received   string
		wantErr    error
		wantChange string
	}{
		{name: "exact", method: PaymentMethodCash, received: "40.00", wantChange: "0"},
		{name: "with change", method: PaymentMethodCash, received: "45.00", wantChange: "5"},
		{name: "insufficient", method: PaymentMethodCash, received: "39.99", wantErr: ErrInvalidArgument},
		{name: "not cash", method: PaymentMethodPix, received: "50.00", wantErr: ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pendingPayment(t, tt.method, "40.00")
			err := p.ProcessCash(dec(tt.received), "caixa-1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if p.Status != PaymentStatusPending {
					t.Fatalf("status = %s after rejected processing", p.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("ProcessCash: %v", err)
			}
			if !p.ChangeAmount.Equal(dec(tt.wantChange)) {
				t.Fatalf("change = %s, want %s", p.ChangeAmount, tt.wantChange)
			}
			if p.Status != PaymentStatusCompleted || p.ProcessedAt == nil || p.ProcessedBy != "caixa-1" {
				t.Fatalf("payment not completed: %+v", p)
			}
		})
	}
}

func TestProcessCard(t *testing.T) {
	p := pendingPayment(t, PaymentMethodCash, "10")
	if err := p.ProcessCard("tx-1", "1234", "op"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("card on cash payment: err = %v", err)
	}

	p = pendingPayment(t, PaymentMethodCreditCard, "10")
	if err := p.ProcessCard("tx-1", "12a4", "op"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("bad last four: err = %v", err)
	}
	if err := p.ProcessCard("tx-1", "1234", "op"); err != nil {
		t.Fatalf("ProcessCard: %v", err)
	}
	if p.TransactionID != "tx-1" || p.CardLastFour != "1234" || !p.IsCompleted() {
		t.Fatalf("card fields not recorded: %+v", p)
	}
	if err := p.ProcessCard("tx-2", "1234", "op"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second processing: err = %v", err)
	}
}

func TestProcessPix(t *testing.T) {
	p := pendingPayment(t, PaymentMethodDebitCard, "10")
	if err := p.ProcessPix("e2e", "op"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("pix on debit: err = %v", err)
	}
	p = pendingPayment(t, PaymentMethodPix, "10")
	if err := p.ProcessPix("e2e", "op"); err != nil {
		t.Fatalf("ProcessPix: %v", err)
	}
	if p.TransactionID != "e2e" || !p.IsCompleted() {
		t.Fatalf("pix not recorded: %+v", p)
	}
}

func TestProcessedAtFirstWriteWins(t *testing.T) {
	p := pendingPayment(t, PaymentMethodBankTransfer, "10")
	p.SetStatus(PaymentStatusCompleted)
	first := *p.ProcessedAt

	time.Sleep(2 * time.Millisecond)
	p.SetStatus(PaymentStatusProcessing)
	p.SetStatus(PaymentStatusCompleted)
	if !p.ProcessedAt.Equal(first) {
		t.Fatal("processedAt overwritten")
	}
}

func TestNewRevenue(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	mk := func(method PaymentMethod, amount string, status PaymentStatus, at time.Time) *Payment {
		return &Payment{Method: method, Amount: dec(amount), Status: status, CreatedAt: at}
	}
	payments := []*Payment{
		mk(PaymentMethodCash, "10.00", PaymentStatusCompleted, day),
		mk(PaymentMethodCash, "5.50", PaymentStatusCompleted, day.Add(time.Hour)),
		mk(PaymentMethodPix, "20.00", PaymentStatusCompleted, day),
		mk(PaymentMethodPix, "99.00", PaymentStatusPending, day),
		mk(PaymentMethodCreditCard, "30.00", PaymentStatusCompleted, day.AddDate(0, 0, 5)),
	}

	r := NewRevenue(payments, day.Add(-time.Hour), day.Add(2*time.Hour))
	if !r.TotalRevenue.Equal(dec("35.50")) {
		t.Fatalf("total = %s, want 35.50", r.TotalRevenue)
	}
	if r.CompletedPayments != 3 {
		t.Fatalf("completed = %d, want 3", r.CompletedPayments)
	}
	if !r.RevenueByMethod[PaymentMethodCash].Equal(dec("15.50")) || !r.RevenueByMethod[PaymentMethodPix].Equal(dec("20")) {
		t.Fatalf("by method = %v", r.RevenueByMethod)
	}
	if _, ok := r.RevenueByMethod[PaymentMethodCreditCard]; ok {
		t.Fatal("out of range payment counted")
	}
}
