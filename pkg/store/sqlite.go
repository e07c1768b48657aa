package store

import (
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	"github.com/mattn/go-sqlite3"
)

const sqliteDriverName = "sqlite3_backoffice"

var patternCache sync.Map // string -> *regexp.Regexp

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("regexp", regexpMatch, true)
		},
	})
}

// regexpMatch backs "x REGEXP pattern", which sqlite calls as regexp(pattern, x).
func regexpMatch(pattern string, value interface{}) (bool, error) {
	var s string
	switch v := value.(type) {
	case nil:
		return false, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}

	re, ok := patternCache.Load(pattern)
	if !ok {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return false, err
		}
		re, _ = patternCache.LoadOrStore(pattern, compiled)
	}
	return re.(*regexp.Regexp).MatchString(s), nil
}
