package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"

	mssql "github.com/microsoft/go-mssqldb"
)

// SQL Server and Azure SQL error numbers that indicate a temporary condition.
var transientErrorNumbers = map[int32]bool{
	233:   true, // connection closed by server during login
	1205:  true, // deadlock victim
	4060:  true, // cannot open database (often mid-failover)
	4221:  true, // login to read-secondary failed during replica change
	10053: true, // transport-level error
	10054: true, // connection reset
	10060: true, // network timeout
	10928: true, // resource limit reached
	10929: true, // resource governor minimum not guaranteed
	40197: true, // service error processing request
	40501: true, // service busy
	40540: true, // service encountered an error
	40613: true, // database unavailable
	49918: true, // not enough resources to process request
	49919: true, // too many create/update operations
	49920: true, // too many operations in progress
}

// SQLServerClassifier recognises transient go-mssqldb and network errors.
type SQLServerClassifier struct{}

func NewSQLServerClassifier() *SQLServerClassifier {
	return &SQLServerClassifier{}
}

func (c *SQLServerClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var sqlErr mssql.Error
	if errors.As(err, &sqlErr) {
		return transientErrorNumbers[sqlErr.Number]
	}
	var sqlErrPtr *mssql.Error
	if errors.As(err, &sqlErrPtr) && sqlErrPtr != nil {
		return transientErrorNumbers[sqlErrPtr.Number]
	}

	return isNetworkError(err) || hasTransientMessage(err)
}

func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}
		return errors.Is(opErr.Err, syscall.ECONNREFUSED) ||
			errors.Is(opErr.Err, syscall.ECONNRESET) ||
			errors.Is(opErr.Err, syscall.ENETUNREACH) ||
			errors.Is(opErr.Err, syscall.EHOSTUNREACH)
	}
	return false
}

var transientMessages = []string{
	"connection refused",
	"connection reset",
	"i/o timeout",
	"broken pipe",
	"unexpected eof",
	"server closed the connection",
	"login error: read tcp",
}

func hasTransientMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientMessages {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
