package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"superstore-dashboard/internal/models"
)

func customerRecords() []models.Record {
	return derive(
		models.Record{CustomerID: "C-1", CustomerName: "Ann", OrderID: "O-1", OrderDate: day(2021, 1, 1), Sales: 10, Profit: 1},
		models.Record{CustomerID: "C-1", CustomerName: "Ann", OrderID: "O-1", OrderDate: day(2021, 1, 1), Sales: 20, Profit: 2},
		models.Record{CustomerID: "C-1", CustomerName: "Ann", OrderID: "O-2", OrderDate: day(2021, 2, 1), Sales: 30, Profit: 3},
		models.Record{CustomerID: "C-2", CustomerName: "Bob", OrderID: "O-3", OrderDate: day(2021, 3, 1), Sales: 100, Profit: -5},
		models.Record{CustomerID: "C-3", CustomerName: "Cy", OrderID: "O-4", OrderDate: day(2021, 3, 2), Sales: 5, Profit: 1},
	)
}

func TestCustomerOrders(t *testing.T) {
	want := []models.CustomerOrders{
		{CustomerID: "C-1", CustomerName: "Ann", Orders: 2, Sales: 60, Profit: 6, Type: models.CustomerRepeat},
		{CustomerID: "C-2", CustomerName: "Bob", Orders: 1, Sales: 100, Profit: -5, Type: models.CustomerNew},
		{CustomerID: "C-3", CustomerName: "Cy", Orders: 1, Sales: 5, Profit: 1, Type: models.CustomerNew},
	}
	if diff := cmp.Diff(want, CustomerOrders(customerRecords())); diff != "" {
		t.Errorf("CustomerOrders mismatch (-want +got):\n%s", diff)
	}
}

func TestCustomerTypes(t *testing.T) {
	want := []models.CustomerTypeSummary{
		{Type: models.CustomerNew, Customers: 2, Sales: 105, Profit: -4},
		{Type: models.CustomerRepeat, Customers: 1, Sales: 60, Profit: 6},
	}
	if diff := cmp.Diff(want, CustomerTypes(customerRecords())); diff != "" {
		t.Errorf("CustomerTypes mismatch (-want +got):\n%s", diff)
	}
}

func TestCustomerTypes_OnlyObservedTypes(t *testing.T) {
	got := CustomerTypes(customerRecords()[3:])
	if len(got) != 1 || got[0].Type != models.CustomerNew {
		t.Errorf("CustomerTypes = %+v, want only new", got)
	}
	if got := CustomerTypes(nil); len(got) != 0 {
		t.Errorf("CustomerTypes(nil) = %+v", got)
	}
}

func TestTopCustomers(t *testing.T) {
	got := TopCustomers(customerRecords(), 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].CustomerID != "C-2" || got[1].CustomerID != "C-1" {
		t.Errorf("TopCustomers order = %s, %s", got[0].CustomerID, got[1].CustomerID)
	}
}

func TestOrderCountDistribution(t *testing.T) {
	want := []models.OrderCountBucket{{Orders: 1, Customers: 2}, {Orders: 2, Customers: 1}}
	if diff := cmp.Diff(want, OrderCountDistribution(customerRecords())); diff != "" {
		t.Errorf("OrderCountDistribution mismatch (-want +got):\n%s", diff)
	}
}
