package mongo

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultPage      = 1
	defaultLimit     = 100
	defaultSortField = "createdAt"
)

// reservedParams never become filters; they drive the other stages.
var reservedParams = map[string]struct{}{
	"page":   {},
	"sort":   {},
	"limit":  {},
	"fields": {},
}

// comparisonOps are the query-string operators rewritten into their Mongo
// equivalents, e.g. duration[gte]=5 → {duration: {$gte: 5}}.
var comparisonOps = map[string]struct{}{
	"gte": {},
	"gt":  {},
	"lte": {},
	"lt":  {},
}

// Features translates request query parameters into a Mongo filter document
// and find options. The stages chain in fixed order — Filter, Sort,
// LimitFields, Paginate — and none of them touches the database: execution
// stays with the caller, which passes the built filter and options to Find.
type Features struct {
	filter   bson.M
	baseKeys map[string]struct{}
	opts     *options.FindOptions
	query    url.Values
}

// NewFeatures starts a chain over base. Keys of the base filter are pinned:
// request parameters can never override them, so default restrictions such
// as the secret-tour exclusion hold regardless of client input.
func NewFeatures(base bson.M, query url.Values) *Features {
	filter := bson.M{}
	baseKeys := make(map[string]struct{}, len(base))
	for k, v := range base {
		filter[k] = v
		baseKeys[k] = struct{}{}
	}
	return &Features{
		filter:   filter,
		baseKeys: baseKeys,
		opts:     options.Find(),
		query:    query,
	}
}

// Filter adds equality and comparison conditions from every non-reserved
// parameter.
func (f *Features) Filter() *Features {
	for key, vals := range f.query {
		if len(vals) == 0 {
			continue
		}
		if _, reserved := reservedParams[key]; reserved {
			continue
		}

		field, op := splitOperator(key)
		if _, pinned := f.baseKeys[field]; pinned {
			continue
		}

		val := parseValue(vals[0])
		if op == "" {
			f.filter[field] = val
			continue
		}
		cond, ok := f.filter[field].(bson.M)
		if !ok {
			cond = bson.M{}
			f.filter[field] = cond
		}
		cond["$"+op] = val
	}
	return f
}

// Sort orders by the comma-separated sort parameter, "-" prefix meaning
// descending. Without the parameter, newest documents come first.
func (f *Features) Sort() *Features {
	raw := f.query.Get("sort")
	if raw == "" {
		f.opts.SetSort(bson.D{{Key: defaultSortField, Value: -1}})
		return f
	}

	var sort bson.D
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(field, "-") {
			dir = -1
			field = field[1:]
		}
		sort = append(sort, bson.E{Key: field, Value: dir})
	}
	if len(sort) > 0 {
		f.opts.SetSort(sort)
	}
	return f
}

// LimitFields projects only the fields named in the fields parameter, or
// excludes "-"-prefixed ones. Absent, the whole document is returned.
func (f *Features) LimitFields() *Features {
	raw := f.query.Get("fields")
	if raw == "" {
		return f
	}

	var projection bson.D
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		include := 1
		if strings.HasPrefix(field, "-") {
			include = 0
			field = field[1:]
		}
		projection = append(projection, bson.E{Key: field, Value: include})
	}
	if len(projection) > 0 {
		f.opts.SetProjection(projection)
	}
	return f
}

// Paginate computes skip = (page-1)*limit with page and limit defaulting to
// 1 and 100.
func (f *Features) Paginate() *Features {
	page := positiveInt(f.query.Get("page"), defaultPage)
	limit := positiveInt(f.query.Get("limit"), defaultLimit)

	f.opts.SetSkip(int64((page - 1) * limit))
	f.opts.SetLimit(int64(limit))
	return f
}

// Build returns the assembled filter and options for execution.
func (f *Features) Build() (bson.M, *options.FindOptions) {
	return f.filter, f.opts
}

// splitOperator parses the bracket syntax key[op]. Unknown operators leave
// the key untouched so they fall through as plain equality.
func splitOperator(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	candidate := key[open+1 : len(key)-1]
	if _, ok := comparisonOps[candidate]; !ok {
		return key, ""
	}
	return key[:open], candidate
}

// parseValue converts numeric and boolean literals so comparisons work on
// the stored types; everything else stays a string.
func parseValue(s string) any {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
