package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-recharge-backend/internal/domain"
)

func TestListOperators_InsertionOrder(t *testing.T) {
	db := newSeededDB(t)
	ops, err := ListOperators(context.Background(), db)
	if err != nil {
		t.Fatalf("ListOperators: %v", err)
	}
	want := []string{"jio", "airtel", "vi", "bsnl"}
	if len(ops) != len(want) {
		t.Fatalf("want %d operators, got %d", len(want), len(ops))
	}
	for i, code := range want {
		if ops[i].Code != code {
			t.Fatalf("ops[%d].Code = %q, want %q", i, ops[i].Code, code)
		}
		if i > 0 && ops[i].ID <= ops[i-1].ID {
			t.Fatalf("ids not ascending: %d then %d", ops[i-1].ID, ops[i].ID)
		}
	}
}

func TestListOperators_EmptyIsNotAnError(t *testing.T) {
	db := newTestDB(t)
	ops, err := ListOperators(context.Background(), db)
	if err != nil || ops == nil || len(ops) != 0 {
		t.Fatalf("want empty non-nil slice, got %v err=%v", ops, err)
	}
}

func TestGetOperator_AndByCode(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	op, err := GetOperatorByCode(ctx, db, "airtel")
	if err != nil || op.Name != "Airtel" || op.BrandColor != "#E60012" {
		t.Fatalf("GetOperatorByCode: %+v err=%v", op, err)
	}
	byID, err := GetOperator(ctx, db, op.ID)
	if err != nil || byID.Code != "airtel" {
		t.Fatalf("GetOperator: %+v err=%v", byID, err)
	}

	if _, err := GetOperatorByCode(ctx, db, "Airtel"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("code match must be exact, got %v", err)
	}
	if _, err := GetOperator(ctx, db, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListPlansByOperator_FiltersInactiveAndOtherOperators(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	jio, _ := GetOperatorByCode(ctx, db, "jio")
	hidden := &domain.RechargePlan{
		OperatorID: jio.ID, OriginalPrice: 100, DiscountedPrice: 17,
		Data: "1GB", Validity: "1 day", Calls: "Unlimited", Type: "Trial", IsActive: false,
	}
	if err := CreatePlan(ctx, db, hidden); err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	plans, err := ListPlansByOperator(ctx, db, jio.ID)
	if err != nil {
		t.Fatalf("ListPlansByOperator: %v", err)
	}
	if len(plans) != 5 {
		t.Fatalf("want 5 active jio plans, got %d", len(plans))
	}
	wantTypes := []string{"Popular", "Value", "Basic", "Annual", "Special"}
	for i, p := range plans {
		if p.OperatorID != jio.ID || !p.IsActive {
			t.Fatalf("unexpected plan in listing: %+v", p)
		}
		if p.Type != wantTypes[i] {
			t.Fatalf("plans[%d].Type = %q, want %q", i, p.Type, wantTypes[i])
		}
	}

	// The inactive plan is still addressable directly and listed globally.
	got, err := GetPlan(ctx, db, hidden.ID)
	if err != nil || got.IsActive {
		t.Fatalf("GetPlan(inactive): %+v err=%v", got, err)
	}
	all, _ := ListPlans(ctx, db)
	if len(all) != 21 {
		t.Fatalf("want 21 plans overall, got %d", len(all))
	}

	none, err := ListPlansByOperator(ctx, db, 4242)
	if err != nil || len(none) != 0 {
		t.Fatalf("unknown operator: want empty, got %v err=%v", none, err)
	}
}

func TestGetPlan_NotFound(t *testing.T) {
	db := newSeededDB(t)
	if _, err := GetPlan(context.Background(), db, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCreatePlan_RejectsUnknownOperator(t *testing.T) {
	db := newTestDB(t)
	p := &domain.RechargePlan{
		OperatorID: 77, OriginalPrice: 100, DiscountedPrice: 17,
		Data: "1GB", Validity: "1 day", Calls: "Unlimited", Type: "Basic", IsActive: true,
	}
	if err := CreatePlan(context.Background(), db, p); err == nil {
		t.Fatalf("expected foreign key violation")
	}
}
