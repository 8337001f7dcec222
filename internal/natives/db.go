package natives

import (
	"database/sql"
	"fmt"
	"sync"

	// Registered purely for their database/sql driver side effects, grounded
	// directly on the teacher's internal/database/database.go import set.
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"rslox/internal/value"
)

// dbHandles maps language-visible Number handles to open *sql.DB
// connections. One process-wide table is enough: the VM is single-threaded
// and a handle never escapes the script that opened it.
var (
	dbMu      sync.Mutex
	dbHandles = map[int64]*sql.DB{}
	dbNext    int64
)

func nativeDBOpen(args []value.Value) (value.Value, error) {
	driver, err := wantString(args[0], "dbOpen()")
	if err != nil {
		return nil, err
	}
	dsn, err := wantString(args[1], "dbOpen()")
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	dbMu.Lock()
	dbNext++
	handle := dbNext
	dbHandles[handle] = db
	dbMu.Unlock()

	return value.Number(handle), nil
}

func nativeDBQuery(args []value.Value) (value.Value, error) {
	handle, err := wantNumber(args[0], "dbQuery()")
	if err != nil {
		return nil, err
	}
	query, err := wantString(args[1], "dbQuery()")
	if err != nil {
		return nil, err
	}

	dbMu.Lock()
	db, ok := dbHandles[int64(handle)]
	dbMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("dbQuery(): no open connection for handle %v", handle)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result value.String
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		scanBuf := make([]sql.NullString, len(cols))
		for i := range scanBuf {
			raw[i] = &scanBuf[i]
		}
		if err := rows.Scan(raw...); err != nil {
			return nil, err
		}
		for i, c := range scanBuf {
			if i > 0 {
				result += "\t"
			}
			result += value.String(c.String)
		}
		result += "\n"
	}
	return result, rows.Err()
}

func nativeDBClose(args []value.Value) (value.Value, error) {
	handle, err := wantNumber(args[0], "dbClose()")
	if err != nil {
		return nil, err
	}
	dbMu.Lock()
	db, ok := dbHandles[int64(handle)]
	delete(dbHandles, int64(handle))
	dbMu.Unlock()
	if !ok {
		return value.None, nil
	}
	return value.None, db.Close()
}
