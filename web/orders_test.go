package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dattatraygorde/Order-Taking-System/db"
	"github.com/dattatraygorde/Order-Taking-System/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func orderValues(customerID uint, date string, pairs ...string) url.Values {
	v := url.Values{"customerId": {formatID(customerID)}, "orderDate": {date}}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Add("vegetableIds", pairs[i])
		v.Add("quantities", pairs[i+1])
	}
	return v
}

func TestNewOrderForm(t *testing.T) {
	env := newTestEnv(t)
	env.addCustomer(t, "buyer@example.com")
	env.addVegetable(t, "Cucumber")

	rec := env.get(t, "/orders/new")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "buyer@example.com")
	assert.Contains(t, body, "Cucumber")
	assert.Contains(t, body, `value="2024-03-15"`)
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	c := env.addCustomer(t, "buyer@example.com")
	tomato := env.addVegetable(t, "Tomato")
	onion := env.addVegetable(t, "Onion")

	rec := env.post(t, "/orders", orderValues(c.ID, "2024-03-15",
		formatID(tomato.ID), "2",
		formatID(onion.ID), "0",
		formatID(onion.ID), " 3 ",
	))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/orders/"), location)

	id, err := parseID(strings.TrimPrefix(location, "/orders/"))
	require.NoError(t, err)
	order, err := env.orders.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", order.OrderDate.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Tomato", order.Items[0].Vegetable.Name)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "Onion", order.Items[1].Vegetable.Name)
	assert.Equal(t, 3, order.Items[1].Quantity)

	page := env.get(t, location)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Test User")
}

func TestCreateOrderMismatchedLinesIsRejected(t *testing.T) {
	env := newTestEnv(t)
	c := env.addCustomer(t, "buyer@example.com")
	v := env.addVegetable(t, "Tomato")

	form := orderValues(c.ID, "2024-03-15", formatID(v.ID), "1")
	form.Add("vegetableIds", formatID(v.ID))
	rec := env.post(t, "/orders", form)

	assertRedirect(t, rec, "/orders/new")
	assert.Equal(t, msgNoItems, flashOf(t, rec))
	assert.Zero(t, env.countOrders(t))

	rec = env.post(t, "/orders", orderValues(c.ID, "2024-03-15"))
	assertRedirect(t, rec, "/orders/new")
	assert.Equal(t, msgNoItems, flashOf(t, rec))
}

func TestCreateOrderWithoutValidQuantities(t *testing.T) {
	env := newTestEnv(t)
	c := env.addCustomer(t, "buyer@example.com")
	tomato := env.addVegetable(t, "Tomato")
	onion := env.addVegetable(t, "Onion")

	rec := env.post(t, "/orders", orderValues(c.ID, "2024-03-15",
		formatID(tomato.ID), "0",
		formatID(onion.ID), "-1",
	))
	assertRedirect(t, rec, "/orders/new")
	assert.Equal(t, msgInvalidQuantities, flashOf(t, rec))
	assert.Zero(t, env.countOrders(t))

	rec = env.post(t, "/orders", orderValues(c.ID, "2024-03-15", formatID(tomato.ID), "", formatID(onion.ID), "  "))
	assertRedirect(t, rec, "/orders/new")
	assert.Zero(t, env.countOrders(t))
}

func TestCreateOrderBadInput(t *testing.T) {
	env := newTestEnv(t)
	c := env.addCustomer(t, "buyer@example.com")
	v := env.addVegetable(t, "Tomato")
	veg := formatID(v.ID)

	tests := []struct {
		name   string
		form   url.Values
		status int
	}{
		{name: "missing customer", form: orderValues(0, "2024-03-15", veg, "1"), status: http.StatusBadRequest},
		{name: "malformed date", form: orderValues(c.ID, "15/03/2024", veg, "1"), status: http.StatusBadRequest},
		{name: "unknown customer", form: orderValues(c.ID+100, "2024-03-15", veg, "1"), status: http.StatusNotFound},
		{name: "unknown vegetable", form: orderValues(c.ID, "2024-03-15", "999", "1"), status: http.StatusNotFound},
		{name: "malformed vegetable", form: orderValues(c.ID, "2024-03-15", "x", "1"), status: http.StatusBadRequest},
		{name: "non-numeric quantity", form: orderValues(c.ID, "2024-03-15", veg, "many"), status: http.StatusBadRequest},
		{name: "fractional quantity", form: orderValues(c.ID, "2024-03-15", veg, "1", veg, "2.5"), status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.post(t, "/orders", tt.form)
			assert.Equal(t, tt.status, rec.Code)
			assert.Zero(t, env.countOrders(t))
		})
	}
}

// A malformed submission must be turned away before any query runs; the mock
// fails every statement other than the driver's version query.
func TestCreateOrderMismatchedLinesNeverQueries(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	mock.ExpectQuery("select sqlite_version").WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("3.46.1"))

	gdb, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	srv, err := NewServer(Config{
		HTTPAddr:   ":0",
		Customers:  db.NewCustomerStore(gdb),
		Vegetables: db.NewVegetableStore(gdb),
		Orders:     db.NewOrderStore(gdb, nil),
		Auth:       newTestAuth(t),
	})
	require.NoError(t, err)
	token, err := srv.auth.Issue(testUser)
	require.NoError(t, err)
	env := &testEnv{server: srv, handler: srv.Handler(), session: &http.Cookie{Name: sessionCookie, Value: token}}

	form := url.Values{
		"customerId":   {"1"},
		"orderDate":    {"2024-03-15"},
		"vegetableIds": {"1", "2"},
		"quantities":   {"5"},
	}
	rec := env.post(t, "/orders", form)

	assertRedirect(t, rec, "/orders/new")
	assert.Equal(t, msgNoItems, flashOf(t, rec))
}

func TestShowUnknownOrder(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusNotFound, env.get(t, "/orders/12345").Code)
}

func TestFinalOrders(t *testing.T) {
	env := newTestEnv(t)
	c := env.addCustomer(t, "buyer@example.com")
	tomato := env.addVegetable(t, "Tomato")
	onion := env.addVegetable(t, "Onion")
	ctx := context.Background()
	day := model.NewDate(2024, time.March, 15)

	a := model.Order{CustomerID: c.ID, OrderDate: day, Items: []model.OrderItem{
		{VegetableID: tomato.ID, Quantity: 2},
		{VegetableID: onion.ID, Quantity: 3},
	}}
	b := model.Order{CustomerID: c.ID, OrderDate: day, Items: []model.OrderItem{{VegetableID: tomato.ID, Quantity: 5}}}
	other := model.Order{CustomerID: c.ID, OrderDate: model.NewDate(2024, time.March, 16), Items: []model.OrderItem{{VegetableID: onion.ID, Quantity: 40}}}
	for _, o := range []*model.Order{&a, &b, &other} {
		require.NoError(t, env.orders.Create(ctx, o))
	}

	rec := env.get(t, "/orders/final?date=2024-03-15")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	onionAt := strings.Index(body, `<td>Onion</td><td class="num">3</td>`)
	tomatoAt := strings.Index(body, `<td>Tomato</td><td class="num">7</td>`)
	assert.True(t, onionAt >= 0 && tomatoAt > onionAt, body)
	assert.NotContains(t, body, ">40<")

	// No date means today.
	rec = env.get(t, "/orders/final")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Final orders for 2024-03-15")

	assert.Equal(t, http.StatusBadRequest, env.get(t, "/orders/final?date=yesterday").Code)
}

func TestDeleteOrder(t *testing.T) {
	env := newTestEnv(t)
	c := env.addCustomer(t, "buyer@example.com")
	v := env.addVegetable(t, "Tomato")
	o := model.Order{CustomerID: c.ID, OrderDate: model.NewDate(2024, time.March, 14), Items: []model.OrderItem{{VegetableID: v.ID, Quantity: 4}}}
	require.NoError(t, env.orders.Create(context.Background(), &o))

	rec := env.post(t, "/orders/"+formatID(o.ID)+"/delete", url.Values{})
	assertRedirect(t, rec, "/orders/final?date=2024-03-14")
	assert.Equal(t, msgOrderDeleted, flashOf(t, rec))
	assert.Zero(t, env.countOrders(t))

	var items int64
	require.NoError(t, env.gdb.Model(&model.OrderItem{}).Count(&items).Error)
	assert.Zero(t, items)

	assertRedirect(t, env.post(t, "/orders/"+formatID(o.ID)+"/delete", url.Values{}), "/orders/final")
}
