package cart

import (
	"fmt"
	"testing"

	"github.com/foodvanpos/posd/internal/app/domain/catalog"
)

func product(id string, price int) catalog.Product {
	return catalog.Product{ID: id, Name: "item-" + id, Price: price, Category: catalog.CategorySnacks}
}

func TestAddMergesDuplicateIntoOneLine(t *testing.T) {
	var c Cart
	p := product("p1", 100)

	if !c.Add(p) || !c.Add(p) {
		t.Fatalf("adds should be accepted")
	}
	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", lines[0].Quantity)
	}
	if c.Total() != 200 {
		t.Fatalf("expected total 200, got %d", c.Total())
	}
}

func TestCapRejectsSixthDistinctProduct(t *testing.T) {
	var c Cart
	for i := 0; i < MaxUniqueItems; i++ {
		if !c.Add(product(fmt.Sprintf("x%d", i), 10)) {
			t.Fatalf("add %d should be accepted", i)
		}
	}
	if c.Add(product("x5", 10)) {
		t.Fatalf("sixth distinct product must be rejected")
	}
	if c.UniqueItemCount() != MaxUniqueItems {
		t.Fatalf("expected %d lines, got %d", MaxUniqueItems, c.UniqueItemCount())
	}
	if !c.Full() {
		t.Fatalf("cart should report full")
	}
}

func TestExistingLineGrowsPastCap(t *testing.T) {
	var c Cart
	for i := 0; i < MaxUniqueItems; i++ {
		c.Add(product(fmt.Sprintf("x%d", i), 10))
	}
	// The existing-line branch must win over the cap check.
	if !c.Add(product("x0", 10)) {
		t.Fatalf("increment of an existing line must still be accepted at the cap")
	}
	if got := c.Quantity("x0"); got != 2 {
		t.Fatalf("expected quantity 2 for x0, got %d", got)
	}
}

func TestTotalInvariantAcrossMutations(t *testing.T) {
	var c Cart
	check := func() {
		want := 0
		for _, l := range c.Lines() {
			want += l.Price * l.Quantity
		}
		if got := c.Total(); got != want {
			t.Fatalf("total %d does not match recomputed %d", got, want)
		}
	}

	check()
	c.Add(product("p1", 100))
	check()
	c.Add(product("p1", 100))
	check()
	c.Add(product("d1", 450))
	check()
	if c.Total() != 650 {
		t.Fatalf("expected 650, got %d", c.Total())
	}
	c.Clear()
	check()
	if !c.Empty() {
		t.Fatalf("cart should be empty after clear")
	}
}

func TestLinesSnapshotDoesNotAliasCart(t *testing.T) {
	var c Cart
	c.Add(product("p1", 100))
	snap := c.Lines()
	c.Add(product("p1", 100))
	if snap[0].Quantity != 1 {
		t.Fatalf("snapshot mutated by later add: %#v", snap[0])
	}
}

func TestFirstSeenOrderPreserved(t *testing.T) {
	var c Cart
	c.Add(product("b", 1))
	c.Add(product("a", 1))
	c.Add(product("b", 1))
	lines := c.Lines()
	if lines[0].ProductID != "b" || lines[1].ProductID != "a" {
		t.Fatalf("unexpected order: %#v", lines)
	}
}
