package checkout

import (
	"testing"

	"github.com/angelmondragon/restaurant-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/restaurant-backend/pkg/errors"
	"github.com/angelmondragon/restaurant-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLines() []cart.Line {
	return []cart.Line{
		{
			ItemID:        "veg-1",
			Title:         "Paneer Butter Masala",
			UnitBasePrice: decimal.NewFromInt(220),
			Quantity:      2,
			AddOns:        []cart.AddOn{{ID: "cheese", Name: "Cheese", Price: decimal.NewFromInt(25)}},
		},
		{ItemID: "drk-1", Title: "Masala Chai", UnitBasePrice: decimal.NewFromInt(35), Quantity: 1},
	}
}

func validForm() Form {
	return Form{
		Name:         "Asha",
		Phone:        "+48 123 456 789",
		Email:        "asha@example.com",
		DeliveryType: enums.DeliveryTypeDelivery,
		Address:      Address{Street: "Piotrkowska 1", Pincode: "90-001"},
	}
}

func TestValidateEmptyCartAlwaysFailsOnCart(t *testing.T) {
	forms := []Form{{}, validForm(), {Name: "x", Phone: "1", Email: "bad"}}
	for _, form := range forms {
		assert.Equal(t, Result{OK: false, Field: FieldCart}, Validate(form, nil))
		assert.Equal(t, Result{OK: false, Field: FieldCart}, Validate(form, []cart.Line{}))
	}
}

func TestValidateOrder(t *testing.T) {
	lines := sampleLines()
	cases := []struct {
		name   string
		mutate func(f *Form)
		field  string
	}{
		{name: "blank name", mutate: func(f *Form) { f.Name = "   "; f.Phone = "" }, field: FieldName},
		{name: "short phone", mutate: func(f *Form) { f.Phone = "12-34-56"; f.Email = "bad" }, field: FieldPhone},
		{name: "bad email", mutate: func(f *Form) { f.Email = "not-an-email"; f.Address.Street = "" }, field: FieldEmail},
		{name: "unknown delivery type", mutate: func(f *Form) { f.DeliveryType = "drone" }, field: FieldDeliveryType},
		{name: "missing street", mutate: func(f *Form) { f.Address.Street = " "; f.Address.Pincode = "" }, field: FieldAddress},
		{name: "missing pincode", mutate: func(f *Form) { f.Address.Pincode = "" }, field: FieldPincode},
		{name: "unknown payment", mutate: func(f *Form) { f.PaymentMethod = "ach" }, field: FieldPaymentMethod},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)
			result := Validate(form, lines)
			assert.False(t, result.OK)
			assert.Equal(t, tc.field, result.Field)
		})
	}
}

func TestValidateAcceptsOptionalFields(t *testing.T) {
	form := validForm()
	form.Email = ""
	assert.True(t, Validate(form, sampleLines()).OK)

	pickup := Form{Name: "Asha", Phone: "1234567", DeliveryType: enums.DeliveryTypePickup}
	assert.True(t, Validate(pickup, sampleLines()).OK, "pickup needs no address")

	defaults := validForm()
	defaults.DeliveryType = ""
	defaults.PaymentMethod = ""
	assert.True(t, Validate(defaults, sampleLines()).OK)

	defaults.Address = Address{}
	assert.Equal(t, FieldAddress, Validate(defaults, sampleLines()).Field, "empty delivery type defaults to delivery")
}

func TestResultErr(t *testing.T) {
	assert.NoError(t, Result{OK: true}.Err())

	err := Result{Field: FieldPhone}.Err()
	require.Error(t, err)
	assert.Equal(t, FieldPhone, pkgerrors.Field(err))
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
