package cart

import (
	"testing"

	"github.com/mcarrillo/storefront/internal/api"
	"github.com/mcarrillo/storefront/internal/storage"
)

func phone() ItemInput {
	return ItemInput{ID: 1, Title: "Phone", Price: 100}
}

func TestAddItem_MergesOnExistingID(t *testing.T) {
	s := Load(nil)

	for i := 0; i < 4; i++ {
		s.AddItem(phone())
	}

	snap := s.Snapshot()
	if len(snap.Items) != 1 {
		t.Fatalf("items = %d, want 1 merged line", len(snap.Items))
	}
	if snap.Items[0].Quantity != 4 || snap.TotalItems != 4 {
		t.Fatalf("quantity = %d totalItems = %d, want 4 and 4", snap.Items[0].Quantity, snap.TotalItems)
	}
	if snap.TotalPrice != 400 {
		t.Fatalf("totalPrice = %v, want 400", snap.TotalPrice)
	}
}

func TestAddItem_KeepsFirstAddSnapshot(t *testing.T) {
	s := Load(nil)

	s.AddItem(phone())
	s.AddItem(ItemInput{ID: 1, Title: "Phone v2", Price: 250})

	snap := s.Snapshot()
	if snap.Items[0].Title != "Phone" || snap.Items[0].Price != 100 {
		t.Fatalf("snapshot fields refreshed: %+v", snap.Items[0])
	}
	if snap.TotalPrice != 200 {
		t.Fatalf("totalPrice = %v, want 200 (first-add price)", snap.TotalPrice)
	}
}

func TestAddItem_AppendsInInsertionOrder(t *testing.T) {
	s := Load(nil)

	s.AddItem(ItemInput{ID: 3, Title: "Mug", Price: 5})
	s.AddItem(ItemInput{ID: 1, Title: "Phone", Price: 100})
	s.AddItem(ItemInput{ID: 3, Title: "Mug", Price: 5})

	snap := s.Snapshot()
	if len(snap.Items) != 2 || snap.Items[0].ID != 3 || snap.Items[1].ID != 1 {
		t.Fatalf("order = %#v, want [3 1]", snap.Items)
	}
}

func TestUpdateQuantity_ZeroEqualsRemove(t *testing.T) {
	a := Load(nil)
	b := Load(nil)
	a.AddItem(phone())
	b.AddItem(phone())

	a.UpdateQuantity(1, 0)
	b.RemoveItem(1)

	sa, sb := a.Snapshot(), b.Snapshot()
	if len(sa.Items) != 0 || len(sb.Items) != 0 {
		t.Fatalf("items: a=%d b=%d, want both empty", len(sa.Items), len(sb.Items))
	}
	if sa.TotalItems != sb.TotalItems || sa.TotalPrice != sb.TotalPrice {
		t.Fatalf("totals differ: a=%+v b=%+v", sa, sb)
	}
}

func TestUpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	s := Load(nil)
	s.AddItem(phone())

	s.UpdateQuantity(42, 5)

	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.TotalItems != 1 || snap.TotalPrice != 100 {
		t.Fatalf("state changed for unknown id: %+v", snap)
	}
}

func TestRemoveItem_MissingIsNoop(t *testing.T) {
	s := Load(nil)
	s.AddItem(phone())

	s.RemoveItem(42)

	if snap := s.Snapshot(); len(snap.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(snap.Items))
	}
}

func TestClear_ResetsEverything(t *testing.T) {
	s := Load(nil)
	s.AddItem(phone())
	s.AddItem(ItemInput{ID: 2, Title: "Mug", Price: 5})
	s.UpdateQuantity(2, 7)

	s.Clear()

	snap := s.Snapshot()
	if len(snap.Items) != 0 || snap.TotalItems != 0 || snap.TotalPrice != 0 {
		t.Fatalf("cleared cart = %+v", snap)
	}
}

func TestScenario_AddUpdateRemoveTotals(t *testing.T) {
	s := Load(nil)

	s.AddItem(phone())
	snap := s.Snapshot()
	if snap.TotalItems != 1 || snap.TotalPrice != 100 {
		t.Fatalf("after first add: %+v", snap)
	}

	s.AddItem(phone())
	snap = s.Snapshot()
	if snap.TotalItems != 2 || snap.TotalPrice != 200 {
		t.Fatalf("after second add: %+v", snap)
	}

	s.UpdateQuantity(1, 5)
	snap = s.Snapshot()
	if snap.TotalItems != 5 || snap.TotalPrice != 500 {
		t.Fatalf("after set quantity 5: %+v", snap)
	}

	s.UpdateQuantity(1, 0)
	snap = s.Snapshot()
	if len(snap.Items) != 0 || snap.TotalItems != 0 || snap.TotalPrice != 0 {
		t.Fatalf("after set quantity 0: %+v", snap)
	}
}

func TestPersistence_RoundTripsItemsButNotOpenFlag(t *testing.T) {
	local, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("storage.Open returned error: %v", err)
	}

	s := Load(local)
	s.AddItem(phone())
	s.AddItem(phone())
	s.AddItem(ItemInput{ID: 2, Title: "Mug", Price: 5.5})
	s.SetOpen(true)

	restored := Load(local)
	snap := restored.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("restored items = %d, want 2", len(snap.Items))
	}
	if snap.TotalItems != 3 || snap.TotalPrice != 205.5 {
		t.Fatalf("restored totals = %+v", snap)
	}
	if snap.Open {
		t.Fatal("open flag must not be persisted")
	}
}

func TestSnapshot_CloneIsIndependent(t *testing.T) {
	s := Load(nil)
	s.AddItem(phone())

	snap := s.Snapshot()
	snap.Items[0].Quantity = 99

	if got := s.Snapshot().Items[0].Quantity; got != 1 {
		t.Fatalf("store mutated through snapshot: quantity = %d", got)
	}
}

func TestToggleOpen(t *testing.T) {
	s := Load(nil)
	if s.Snapshot().Open {
		t.Fatal("cart starts open")
	}
	s.ToggleOpen()
	if !s.Snapshot().Open {
		t.Fatal("ToggleOpen did not open")
	}
	s.SetOpen(false)
	if s.Snapshot().Open {
		t.Fatal("SetOpen(false) did not close")
	}
}

func TestItemFromProduct_TakesFirstImageAndCategory(t *testing.T) {
	p := api.Product{
		ID:     9,
		Title:  "Chair",
		Price:  49.5,
		Images: []string{"a.png", "b.png"},
		Category: api.Category{
			ID:   2,
			Name: "Furniture",
		},
	}

	in := ItemFromProduct(p)
	if in.Image != "a.png" {
		t.Fatalf("image = %q, want first image", in.Image)
	}
	if in.Category == nil || in.Category.Name != "Furniture" {
		t.Fatalf("category = %+v", in.Category)
	}

	bare := ItemFromProduct(api.Product{ID: 1, Title: "X", Price: 1})
	if bare.Image != "" || bare.Category != nil {
		t.Fatalf("bare product produced image/category: %+v", bare)
	}
}
