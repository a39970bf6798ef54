package mongo

import (
	"net/url"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func buildFeatures(base bson.M, rawQuery string) (filter bson.M, skip, limit int64, sort, projection any) {
	query, _ := url.ParseQuery(rawQuery)
	filter, opts := NewFeatures(base, query).
		Filter().
		Sort().
		LimitFields().
		Paginate().
		Build()

	if opts.Skip != nil {
		skip = *opts.Skip
	}
	if opts.Limit != nil {
		limit = *opts.Limit
	}
	return filter, skip, limit, opts.Sort, opts.Projection
}

func TestFeatures_Filter_Equality(t *testing.T) {
	filter, _, _, _, _ := buildFeatures(bson.M{}, "difficulty=easy&duration=5")

	if got := filter["difficulty"]; got != "easy" {
		t.Fatalf("difficulty = %v, want easy", got)
	}
	if got := filter["duration"]; got != float64(5) {
		t.Fatalf("duration = %v (%T), want float64 5", got, got)
	}
}

func TestFeatures_Filter_ComparisonOperators(t *testing.T) {
	filter, _, _, _, _ := buildFeatures(bson.M{}, "duration[gte]=5&price[lt]=1000")

	want := bson.M{"$gte": float64(5)}
	if got, ok := filter["duration"].(bson.M); !ok || !reflect.DeepEqual(got, want) {
		t.Fatalf("duration = %v, want %v", filter["duration"], want)
	}
	want = bson.M{"$lt": float64(1000)}
	if got, ok := filter["price"].(bson.M); !ok || !reflect.DeepEqual(got, want) {
		t.Fatalf("price = %v, want %v", filter["price"], want)
	}
}

func TestFeatures_Filter_ReservedParamsIgnored(t *testing.T) {
	filter, _, _, _, _ := buildFeatures(bson.M{}, "page=2&sort=price&limit=10&fields=name&duration=5")

	for _, reserved := range []string{"page", "sort", "limit", "fields"} {
		if _, ok := filter[reserved]; ok {
			t.Fatalf("reserved parameter %q leaked into the filter: %v", reserved, filter)
		}
	}
	if _, ok := filter["duration"]; !ok {
		t.Fatalf("duration missing from filter: %v", filter)
	}
}

func TestFeatures_Filter_BaseKeysPinned(t *testing.T) {
	base := bson.M{"secretTour": bson.M{"$ne": true}}
	filter, _, _, _, _ := buildFeatures(base, "secretTour=true&secretTour[gte]=1")

	want := bson.M{"$ne": true}
	if got, ok := filter["secretTour"].(bson.M); !ok || !reflect.DeepEqual(got, want) {
		t.Fatalf("secretTour = %v, want pinned %v", filter["secretTour"], want)
	}
}

func TestFeatures_Filter_BooleanValue(t *testing.T) {
	filter, _, _, _, _ := buildFeatures(bson.M{}, "paid=true")

	if got := filter["paid"]; got != true {
		t.Fatalf("paid = %v (%T), want bool true", got, got)
	}
}

func TestFeatures_Sort_Default(t *testing.T) {
	_, _, _, sort, _ := buildFeatures(bson.M{}, "")

	want := bson.D{{Key: "createdAt", Value: -1}}
	if !reflect.DeepEqual(sort, want) {
		t.Fatalf("sort = %v, want %v", sort, want)
	}
}

func TestFeatures_Sort_MultiField(t *testing.T) {
	_, _, _, sort, _ := buildFeatures(bson.M{}, "sort=-ratingsAverage,price")

	want := bson.D{
		{Key: "ratingsAverage", Value: -1},
		{Key: "price", Value: 1},
	}
	if !reflect.DeepEqual(sort, want) {
		t.Fatalf("sort = %v, want %v", sort, want)
	}
}

func TestFeatures_LimitFields(t *testing.T) {
	_, _, _, _, projection := buildFeatures(bson.M{}, "fields=name,price")

	want := bson.D{
		{Key: "name", Value: 1},
		{Key: "price", Value: 1},
	}
	if !reflect.DeepEqual(projection, want) {
		t.Fatalf("projection = %v, want %v", projection, want)
	}
}

func TestFeatures_LimitFields_Exclusion(t *testing.T) {
	_, _, _, _, projection := buildFeatures(bson.M{}, "fields=-description")

	want := bson.D{{Key: "description", Value: 0}}
	if !reflect.DeepEqual(projection, want) {
		t.Fatalf("projection = %v, want %v", projection, want)
	}
}

func TestFeatures_Paginate(t *testing.T) {
	_, skip, limit, _, _ := buildFeatures(bson.M{}, "page=2&limit=10")

	if skip != 10 {
		t.Fatalf("skip = %d, want 10", skip)
	}
	if limit != 10 {
		t.Fatalf("limit = %d, want 10", limit)
	}
}

func TestFeatures_Paginate_Defaults(t *testing.T) {
	_, skip, limit, _, _ := buildFeatures(bson.M{}, "")

	if skip != 0 {
		t.Fatalf("skip = %d, want 0", skip)
	}
	if limit != 100 {
		t.Fatalf("limit = %d, want 100", limit)
	}
}

func TestFeatures_Paginate_InvalidValuesFallBack(t *testing.T) {
	_, skip, limit, _, _ := buildFeatures(bson.M{}, "page=0&limit=abc")

	if skip != 0 {
		t.Fatalf("skip = %d, want 0", skip)
	}
	if limit != 100 {
		t.Fatalf("limit = %d, want 100", limit)
	}
}

func TestSplitOperator(t *testing.T) {
	cases := []struct {
		key       string
		wantField string
		wantOp    string
	}{
		{"duration[gte]", "duration", "gte"},
		{"price[lt]", "price", "lt"},
		{"duration", "duration", ""},
		{"duration[unknown]", "duration[unknown]", ""},
		{"[gte]", "[gte]", ""},
	}
	for _, tc := range cases {
		field, op := splitOperator(tc.key)
		if field != tc.wantField || op != tc.wantOp {
			t.Errorf("splitOperator(%q) = (%q, %q), want (%q, %q)", tc.key, field, op, tc.wantField, tc.wantOp)
		}
	}
}
