package views

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/johanaerens/assetmanagement/client"
	"github.com/johanaerens/assetmanagement/db"
	"github.com/johanaerens/assetmanagement/logging"
	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/prefs"
	"github.com/johanaerens/assetmanagement/store"
	"github.com/johanaerens/assetmanagement/sync"
	"github.com/johanaerens/assetmanagement/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brussels = time.FixedZone("CET", 3600)

func setupControllers(t *testing.T) *sync.Controllers {
	t.Helper()
	database, err := db.OpenDatabase(context.Background(), filepath.Join(t.TempDir(), "views.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	ts := httptest.NewServer(web.NewServer(database, logging.Discard()).Handler())
	t.Cleanup(ts.Close)

	c, err := client.New(ts.URL, client.WithLogger(logging.Discard()))
	require.NoError(t, err)
	return sync.NewControllers(c, logging.Discard())
}

func TestDateConversion(t *testing.T) {
	utc := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-01 09:30", DateTimeFromServer(&utc, brussels))
	assert.Equal(t, "", DateTimeFromServer(nil, brussels))

	back, err := DateTimeToServer("2024-03-01 09:30", brussels)
	require.NoError(t, err)
	assert.True(t, utc.Equal(*back))
	assert.Equal(t, time.UTC, back.Location())

	empty, err := DateTimeToServer("  ", brussels)
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = DateTimeToServer("01/03/2024", brussels)
	assert.Error(t, err)

	assert.Equal(t, "2024-03-01 09:30", DisplayDefaultDateTime(utc, brussels))
}

func TestListViewToggleSort(t *testing.T) {
	ctx := context.Background()
	ctrls := setupControllers(t)
	for _, n := range []string{"Bob", "Ann"} {
		require.NoError(t, ctrls.Employees.Create(ctx, models.Employee{FirstName: models.Ptr(n)}))
	}

	p, err := prefs.OpenInMemory()
	require.NoError(t, err)
	defer p.Close()

	list, err := NewListView[models.Employee](ctrls.Employees, p, brussels)
	require.NoError(t, err)
	require.NoError(t, list.Load(ctx))
	assert.Equal(t, "Employees", list.Title())

	require.NoError(t, list.ToggleSort(ctx, "firstName"))
	assert.Equal(t, "sort=firstName%2Casc", list.Query())
	rows := list.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Ann", rows[0][1])

	require.NoError(t, list.ToggleSort(ctx, "firstName"))
	assert.Equal(t, store.Desc, list.Sort().Direction)
	assert.Equal(t, "Bob", list.Rows()[0][1])

	assert.Error(t, list.ToggleSort(ctx, "salary"))

	saved, err := p.LoadSort(models.EntityEmployee)
	require.NoError(t, err)
	assert.Equal(t, "firstName,desc", saved)

	restored, err := NewListView[models.Employee](ctrls.Employees, p, brussels)
	require.NoError(t, err)
	assert.Equal(t, store.Sort{Field: "firstName", Direction: store.Desc}, restored.Sort())
}

func TestListViewQueryRoundTrip(t *testing.T) {
	ctrls := setupControllers(t)
	list, err := NewListView[models.Asset](ctrls.Assets, nil, brussels)
	require.NoError(t, err)

	require.NoError(t, list.SetQuery("sort=brand,desc"))
	assert.Equal(t, store.Sort{Field: "brand", Direction: store.Desc}, list.Sort())
	assert.Equal(t, "sort=brand%2Cdesc", list.Query())

	assert.Error(t, list.SetQuery("sort=colour,asc"))

	require.NoError(t, list.SetQuery(""))
	assert.Equal(t, "", list.Query())
}

func TestFormCreateDefaultsAndSubmit(t *testing.T) {
	ctx := context.Background()
	ctrls := setupControllers(t)
	require.NoError(t, ctrls.Employees.Create(ctx, models.Employee{FirstName: models.Ptr("Ann")}))
	ann := ctrls.Employees.Store().State().Entity

	form := NewFormView[models.Asset](ctrls.Assets, brussels, RelatedList[models.Employee](ctrls.Employees))
	now := time.Date(2024, 5, 6, 7, 8, 0, 0, time.UTC)
	form.SetClock(func() time.Time { return now })

	require.NoError(t, form.Mount(ctx, nil))
	assert.Equal(t, ModeCreate, form.Mode())

	values := form.Values()
	assert.Equal(t, "IN_USE", values["status"])
	assert.Equal(t, "2024-05-06 08:08", values["purchaseDate"])
	assert.Equal(t, "", values["employee"])

	opts := form.Options("employee")
	require.Len(t, opts, 1)
	assert.Equal(t, *ann.ID, opts[0].ID)

	values["number"] = "L-1"
	values["employee"] = strconv.FormatInt(*ann.ID, 10)
	values["warantDate"] = ""
	require.NoError(t, form.Submit(ctx, values))
	assert.True(t, form.Done())

	saved := ctrls.Assets.Store().State().Entity
	assert.Equal(t, "L-1", *saved.Number)
	assert.True(t, now.Equal(*saved.PurchaseDate))
	assert.Nil(t, saved.WarantDate)
	require.NotNil(t, saved.Employee)
	assert.Equal(t, "Ann", *saved.Employee.FirstName)
	assert.Len(t, ctrls.Assets.Store().State().Entities, 1)
}

func TestFormEditKeepsIDAndConvertsDates(t *testing.T) {
	ctx := context.Background()
	ctrls := setupControllers(t)

	hired := time.Date(2020, 1, 1, 23, 30, 0, 0, time.UTC)
	require.NoError(t, ctrls.Employees.Create(ctx, models.Employee{FirstName: models.Ptr("Ann"), HireDate: &hired}))
	id := ctrls.Employees.Store().State().Entity.ID

	form := NewFormView[models.Employee](ctrls.Employees, brussels)
	require.NoError(t, form.Mount(ctx, id))
	assert.Equal(t, ModeEdit, form.Mode())

	values := form.Values()
	assert.Equal(t, "2020-01-02 00:30", values["hireDate"])
	assert.Equal(t, "Ann", values["firstName"])

	values["lastName"] = "Peeters"
	values["language"] = "ENGLISH"
	require.NoError(t, form.Submit(ctx, values))

	saved := ctrls.Employees.Store().State().Entity
	assert.Equal(t, *id, *saved.ID)
	assert.Equal(t, "Peeters", *saved.LastName)
	assert.Equal(t, models.LanguageEnglish, *saved.Language)
	assert.True(t, hired.Equal(*saved.HireDate))
}

func TestFormRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	ctrls := setupControllers(t)

	form := NewFormView[models.Employee](ctrls.Employees, brussels)
	require.NoError(t, form.Mount(ctx, nil))

	values := form.Values()
	values["language"] = "KLINGON"
	assert.Error(t, form.Submit(ctx, values))
	assert.False(t, form.Done())

	values = form.Values()
	values["hireDate"] = "yesterday"
	assert.Error(t, form.Submit(ctx, values))
}

func TestFormUnknownReferenceIsDropped(t *testing.T) {
	ctx := context.Background()
	ctrls := setupControllers(t)

	form := NewFormView[models.AssetHistory](ctrls.AssetHistories, brussels,
		RelatedList[models.Asset](ctrls.Assets), RelatedList[models.Employee](ctrls.Employees))
	require.NoError(t, form.Mount(ctx, nil))
	assert.Empty(t, form.Options("asset"))
	assert.Nil(t, form.Options("startDate"))

	values := form.Values()
	values["asset"] = "42"
	require.NoError(t, form.Submit(ctx, values))

	assert.Nil(t, ctrls.AssetHistories.Store().State().Entity.Asset)
}

func TestDetailAndDeleteViews(t *testing.T) {
	ctx := context.Background()
	ctrls := setupControllers(t)
	require.NoError(t, ctrls.Assets.Create(ctx, models.Asset{Number: models.Ptr("A-7"), Status: models.Ptr(models.StatusSold)}))
	id := *ctrls.Assets.Store().State().Entity.ID

	detail := NewDetailView[models.Asset](ctrls.Assets, brussels)
	require.NoError(t, detail.Load(ctx, id))
	rows := detail.Rows()
	require.NotEmpty(t, rows)
	assert.Equal(t, Row{Label: "Number", Value: "A-7"}, rows[1])
	assert.Contains(t, rows, Row{Label: "Status", Value: "SOLD"})

	del := NewDeleteView[models.Asset](ctrls.Assets)
	require.NoError(t, del.Load(ctx, id))
	assert.Contains(t, del.Prompt(), "delete asset")
	require.NoError(t, del.Confirm(ctx))
	assert.True(t, del.Done())
	assert.Nil(t, del.State().Entity.ID)
	assert.Empty(t, del.State().Entities)
}

func TestBindValues(t *testing.T) {
	h, err := BindValues(models.AssetHistoryDescriptor, map[string]string{
		"startDate": "2024-03-01 09:30",
		"endDate":   "2024-04-01T00:00:00Z",
		"employee":  "3",
		"asset":     "",
	}, brussels)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), *h.StartDate)
	assert.True(t, h.EndDate.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, h.Employee)
	assert.Equal(t, int64(3), *h.Employee.ID)
	assert.Nil(t, h.Asset)

	_, err = BindValues(models.AssetDescriptor, map[string]string{"status": "LOST"}, nil)
	assert.EqualError(t, err, "status must be one of IN_USE, SOLD, NOT_WORKING, NEW")

	_, err = BindValues(models.EmployeeDescriptor, map[string]string{"salary": "1"}, nil)
	assert.ErrorContains(t, err, `unknown field "salary" for employee`)

	var e models.Employee
	SetID(models.EmployeeDescriptor, &e, 12)
	assert.Equal(t, int64(12), *e.ID)
}
