package server

// Server groups the per-resource HTTP servers behind one router.
type Server struct {
	DealServer
	IngestionServer
	StatsServer
}

func NewServer(
	dealServer DealServer,
	ingestionServer IngestionServer,
	statsServer StatsServer,
) Server {
	return Server{
		DealServer:      dealServer,
		IngestionServer: ingestionServer,
		StatsServer:     statsServer,
	}
}
