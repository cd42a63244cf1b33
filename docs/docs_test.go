package docs

import (
	"encoding/json"
	"testing"
)

func TestSwaggerDocCoversRoutes(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc); err != nil {
		t.Fatalf("swagger doc is not valid JSON: %v", err)
	}

	want := map[string]string{
		"/health":                             "get",
		"/metrics":                            "get",
		"/user/signup":                        "post",
		"/user/login":                         "post",
		"/user/profile":                       "patch",
		"/user/create-order":                  "post",
		"/user/orders":                        "get",
		"/user/order/{id}":                    "get",
		"/admin/vendor":                       "post",
		"/admin/vendors":                      "get",
		"/admin/vendor/{id}":                  "get",
		"/vendor/login":                       "post",
		"/vendor/profile":                     "patch",
		"/vendor/service":                     "patch",
		"/vendor/food":                        "post",
		"/vendor/foods":                       "get",
		"/shopping/foods":                     "get",
		"/shopping/foods-in-30-min":           "get",
		"/shopping/food/{id}":                 "get",
		"/shopping/top-restaurants/{pincode}": "get",
		"/shopping/restaurant/{id}":           "get",
	}
	for path, method := range want {
		ops, ok := doc.Paths[path]
		if !ok {
			t.Errorf("missing path %s", path)
			continue
		}
		if _, ok := ops[method]; !ok {
			t.Errorf("path %s has no %s operation", path, method)
		}
	}
}
