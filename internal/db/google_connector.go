package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
)

// cloudSQLDialer routes go-mssqldb connections through the Cloud SQL
// connector, which handles TLS and instance lookup. The network address
// the driver asks for is ignored in favour of the instance name.
//
// Implements io.Closer. Close must be called once the sql.DB is closed.
type cloudSQLDialer struct {
	instance string
	dialer   *cloudsqlconn.Dialer
}

// newCloudSQLDialer creates a dialer for an instance connection name in
// format project:region:instance.
func newCloudSQLDialer(ctx context.Context, instance string) (*cloudSQLDialer, error) {
	d, err := cloudsqlconn.NewDialer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w", err)
	}
	return &cloudSQLDialer{instance: instance, dialer: d}, nil
}

func (d *cloudSQLDialer) DialContext(ctx context.Context, _, _ string) (net.Conn, error) {
	return d.dialer.Dial(ctx, d.instance)
}

func (d *cloudSQLDialer) Close() error {
	if d.dialer == nil {
		return nil
	}
	err := d.dialer.Close()
	d.dialer = nil
	return err
}
