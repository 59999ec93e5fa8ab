// ABOUTME: Tests for asset management data models
// ABOUTME: Validates enums, labels, field comparison and patch merging
package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if Status("BROKEN").Valid() {
		t.Error("expected BROKEN to be invalid")
	}
	if !LanguageDutch.Valid() || Language("KLINGON").Valid() {
		t.Error("language validation mismatch")
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Ann Smith", Employee{FirstName: Ptr("Ann"), LastName: Ptr("Smith")}.Label())
	assert.Equal(t, "employee #7", Employee{ID: Ptr(int64(7))}.Label())
	assert.Equal(t, "A-1 Dell", Asset{Number: Ptr("A-1"), Brand: Ptr("Dell")}.Label())
	assert.Equal(t, "new history", AssetHistory{}.Label())
}

func TestAssetJSONOmitsNullFields(t *testing.T) {
	data, err := json.Marshal(Asset{Number: Ptr("even"), Status: Ptr(StatusInUse)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"number":"even","status":"IN_USE"}`, string(data))
}

func TestCompareValuesNullFirst(t *testing.T) {
	a := Value{Kind: KindText, Text: Ptr("Ann")}
	null := Value{Kind: KindText}

	assert.Equal(t, -1, CompareValues(null, a))
	assert.Equal(t, 1, CompareValues(a, null))
	assert.Equal(t, 0, CompareValues(null, null))
}

func TestDescriptorCompare(t *testing.T) {
	early := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)

	tests := []struct {
		name  string
		field string
		a, b  Employee
		want  int
	}{
		{"text", "firstName", Employee{FirstName: Ptr("Ann")}, Employee{FirstName: Ptr("Bob")}, -1},
		{"bytewise", "firstName", Employee{FirstName: Ptr("Zed")}, Employee{FirstName: Ptr("ann")}, -1},
		{"time", "hireDate", Employee{HireDate: &late}, Employee{HireDate: &early}, 1},
		{"enum", "language", Employee{Language: Ptr(LanguageDutch)}, Employee{Language: Ptr(LanguageEnglish)}, -1},
		{"id", "id", Employee{ID: Ptr(int64(2))}, Employee{ID: Ptr(int64(2))}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EmployeeDescriptor.Compare(tt.field, tt.a, tt.b)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := EmployeeDescriptor.Compare("salary", Employee{}, Employee{})
	assert.False(t, ok)
}

func TestCompareReferencesByID(t *testing.T) {
	a := AssetHistory{Employee: &Employee{ID: Ptr(int64(1))}}
	b := AssetHistory{Employee: &Employee{ID: Ptr(int64(3))}}

	got, ok := AssetHistoryDescriptor.Compare("employee", a, b)
	require.True(t, ok)
	assert.Equal(t, -1, got)

	got, _ = AssetHistoryDescriptor.Compare("employee", AssetHistory{}, a)
	assert.Equal(t, -1, got)
}

func TestMergeCopiesOnlyNonNullFields(t *testing.T) {
	start := time.Date(2021, 5, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	dst := AssetHistory{
		ID:        Ptr(int64(9)),
		StartDate: &start,
		Asset:     &Asset{ID: Ptr(int64(4))},
		Employee:  &Employee{ID: Ptr(int64(5))},
	}

	AssetHistoryDescriptor.Merge(&dst, AssetHistory{ID: Ptr(int64(99)), EndDate: &end})

	assert.Equal(t, int64(9), *dst.ID)
	assert.Equal(t, start, *dst.StartDate)
	assert.Equal(t, end, *dst.EndDate)
	assert.Equal(t, int64(4), *dst.Asset.ID)
	assert.Equal(t, int64(5), *dst.Employee.ID)
}

func TestDefaults(t *testing.T) {
	asset := AssetDescriptor.Defaults()
	require.NotNil(t, asset.Status)
	assert.Equal(t, StatusInUse, *asset.Status)
	assert.Nil(t, asset.ID)

	emp := EmployeeDescriptor.Defaults()
	require.NotNil(t, emp.Language)
	assert.Equal(t, LanguageFrench, *emp.Language)
}

func TestRefFieldSetAcceptsValueAndPointer(t *testing.T) {
	f, ok := AssetDescriptor.Field("employee")
	require.True(t, ok)

	var a Asset
	f.Set(&a, Value{Kind: KindRef, Ref: Employee{ID: Ptr(int64(3))}})
	require.NotNil(t, a.Employee)
	assert.Equal(t, int64(3), *a.Employee.ID)

	f.Set(&a, Value{Kind: KindRef, Ref: &Employee{ID: Ptr(int64(4))}})
	assert.Equal(t, int64(4), *a.Employee.ID)

	f.Set(&a, Value{Kind: KindRef})
	assert.Nil(t, a.Employee)
}

func TestValueString(t *testing.T) {
	ts := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "2022-03-04T05:06:07Z", Value{Kind: KindTime, Time: &ts}.String())
	assert.Equal(t, "12", Value{Kind: KindRef, Ref: Asset{ID: Ptr(int64(12))}}.String())
	assert.Equal(t, "", Value{Kind: KindText}.String())
}

func TestNewRef(t *testing.T) {
	ref, ok := NewRef(EntityEmployee, 8)
	require.True(t, ok)
	assert.Equal(t, int64(8), *ref.EntityID())
	assert.IsType(t, Employee{}, ref)

	_, ok = NewRef("vehicle", 1)
	assert.False(t, ok)
}
