package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

// regionsParam reads ?regions= as repeated and/or comma-separated values. It
// returns nil when the parameter is absent so the default region set applies;
// a present but blank parameter selects no regions.
func regionsParam(c *gin.Context) []string {
	raw, ok := c.GetQueryArray("regions")
	if !ok {
		return nil
	}
	out := []string{}
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func intParam(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, oncology.Validation("http.params", name+" must be an integer")
	}
	return n, nil
}
