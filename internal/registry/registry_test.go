package registry_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/anstrom/lanwatch/internal/device"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/registry"
	"github.com/anstrom/lanwatch/internal/registry/mocks"
)

// memStore records every saved snapshot.
type memStore struct {
	mu    sync.Mutex
	saves []*registry.Snapshot
	load  *registry.Snapshot
}

func (m *memStore) Name() string { return "memory" }

func (m *memStore) Load(context.Context) (*registry.Snapshot, error) {
	return m.load, nil
}

func (m *memStore) Save(_ context.Context, snap *registry.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, snap)
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

func (m *memStore) last() *registry.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[len(m.saves)-1]
}

// stepClock returns a clock advancing one minute per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Minute)
		return t
	}
}

func online(address string, seen time.Time) device.Device {
	d := device.New(address)
	d.Online = true
	d.LastSeen = seen
	return d
}

func addresses(list []device.Device) []string {
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = d.Address
	}
	return out
}

func TestRegistry_AddOrUpdateIsIdempotentOnIdentity(t *testing.T) {
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	reg := registry.New(logging.Discard(), registry.WithClock(stepClock(start)))

	reg.AddOrUpdate(online("192.168.1.10", start))
	first, ok := reg.Get("192.168.1.10")
	require.True(t, ok)

	second := online("192.168.1.10", start.Add(time.Hour))
	second.Hostname = "printer.lan"
	reg.AddOrUpdate(second)

	got, ok := reg.Get("192.168.1.10")
	require.True(t, ok)
	assert.Equal(t, first.FirstDiscovered, got.FirstDiscovered)
	assert.Equal(t, 2, got.DiscoveryCount)
	assert.Equal(t, "printer.lan", got.Hostname)
	assert.Equal(t, start.Add(time.Hour), got.LastSeen)
	assert.Len(t, got.OnlineHistory, 2)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_Ordering(t *testing.T) {
	reg := registry.New(logging.Discard())
	now := time.Now()

	for _, addr := range []string{"192.168.1.100", "not-an-ip", "192.168.1.1", "192.168.2.3", "192.168.1.50"} {
		reg.AddOrUpdate(online(addr, now))
	}

	assert.Equal(t,
		[]string{"192.168.1.1", "192.168.1.50", "192.168.1.100", "192.168.2.3", "not-an-ip"},
		addresses(reg.All()))
	assert.Equal(t, addresses(reg.All()), reg.Addresses())
}

func TestRegistry_UpdateDevicesKeepsAbsentDevicesOffline(t *testing.T) {
	reg := registry.New(logging.Discard())
	now := time.Now()

	reg.UpdateDevices([]device.Device{
		online("10.0.0.1", now),
		online("10.0.0.2", now),
		online("10.0.0.3", now),
	})
	require.Equal(t, 3, reg.Len())

	reg.UpdateDevices([]device.Device{online("10.0.0.2", now.Add(time.Minute))})

	assert.Equal(t, 3, reg.Len())
	all := reg.All()
	assert.False(t, all[0].Online)
	assert.True(t, all[1].Online)
	assert.Equal(t, 2, all[1].DiscoveryCount)
	assert.False(t, all[2].Online)
	assert.Equal(t, 1, all[2].DiscoveryCount)
}

func TestRegistry_MergeDevicesUpdatesLiveStateOnly(t *testing.T) {
	reg := registry.New(logging.Discard())
	now := time.Now()

	full := online("10.0.0.5", now)
	full.Manufacturer = "Raspberry Pi Foundation"
	full.OperatingSystem = "Raspbian"
	reg.AddOrUpdate(full)

	update := online("10.0.0.5", now.Add(time.Minute))
	update.ResponseTimeMs = 42
	update.OpenPorts = []device.PortObservation{{Port: 22, ServiceName: "SSH", Protocol: device.ProtocolTCP, IsOpen: true}}
	reg.MergeDevices([]device.Device{update, online("10.0.0.6", now)})

	got, ok := reg.Get("10.0.0.5")
	require.True(t, ok)
	assert.Equal(t, "Raspberry Pi Foundation", got.Manufacturer)
	assert.Equal(t, "Raspbian", got.OperatingSystem)
	assert.Equal(t, int64(42), got.ResponseTimeMs)
	assert.Equal(t, []int{22}, got.PortNumbers())
	assert.Equal(t, 2, got.DiscoveryCount)
	assert.Len(t, got.OnlineHistory, 2)

	inserted, ok := reg.Get("10.0.0.6")
	require.True(t, ok)
	assert.Equal(t, 1, inserted.DiscoveryCount)
	assert.False(t, inserted.FirstDiscovered.IsZero())
}

func TestRegistry_OnlineHistoryIsCapped(t *testing.T) {
	reg := registry.New(logging.Discard())
	start := time.Now()

	for i := 0; i < device.MaxOnlineHistory+5; i++ {
		reg.AddOrUpdate(online("10.0.0.1", start.Add(time.Duration(i)*time.Minute)))
	}

	got, _ := reg.Get("10.0.0.1")
	require.Len(t, got.OnlineHistory, device.MaxOnlineHistory)
	assert.Equal(t, start.Add(time.Duration(device.MaxOnlineHistory+4)*time.Minute), got.OnlineHistory[device.MaxOnlineHistory-1])
}

func TestRegistry_OfflineObservationAddsNoHistory(t *testing.T) {
	reg := registry.New(logging.Discard())
	reg.AddOrUpdate(device.New("10.0.0.1"))

	got, _ := reg.Get("10.0.0.1")
	assert.Empty(t, got.OnlineHistory)
	assert.NotNil(t, got.OnlineHistory)
	assert.NotNil(t, got.OpenPorts)
}

func TestRegistry_MarkOfflineAndClear(t *testing.T) {
	reg := registry.New(logging.Discard())
	reg.AddOrUpdate(online("10.0.0.1", time.Now()))

	assert.False(t, reg.MarkOffline("10.0.0.99"))
	assert.True(t, reg.MarkOffline("10.0.0.1"))
	got, _ := reg.Get("10.0.0.1")
	assert.False(t, got.Online)

	reg.Clear()
	assert.Zero(t, reg.Len())
	_, ok := reg.Get("10.0.0.1")
	assert.False(t, ok)
}

func TestRegistry_ReadsReturnCopies(t *testing.T) {
	reg := registry.New(logging.Discard())
	d := online("10.0.0.1", time.Now())
	d.OpenPorts = []device.PortObservation{{Port: 80}}
	reg.AddOrUpdate(d)

	got, _ := reg.Get("10.0.0.1")
	got.OpenPorts[0].Port = 9999
	got.Hostname = "mutated"

	all := reg.All()
	all[0].OpenPorts[0].Port = 1234

	again, _ := reg.Get("10.0.0.1")
	assert.Equal(t, 80, again.OpenPorts[0].Port)
	assert.Equal(t, device.Unknown, again.Hostname)
}

func TestRegistry_Subscribe(t *testing.T) {
	reg := registry.New(logging.Discard())
	reg.AddOrUpdate(online("10.0.0.9", time.Now()))

	var (
		a, b [][]string
	)
	unsubA := reg.Subscribe(func(list []device.Device) { a = append(a, addresses(list)) })
	reg.Subscribe(func(list []device.Device) { b = append(b, addresses(list)) })

	assert.Empty(t, a, "subscribers do not see earlier mutations")

	reg.AddOrUpdate(online("10.0.0.1", time.Now()))
	unsubA()
	reg.MarkOffline("10.0.0.1")

	require.Len(t, a, 1)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.9"}, a[0])
	require.Len(t, b, 2)
	assert.Equal(t, a[0], b[0])
}

func TestRegistry_ConcurrentMutations(t *testing.T) {
	reg := registry.New(logging.Discard())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			addr := fmt.Sprintf("10.0.0.%d", i%10)
			reg.AddOrUpdate(online(addr, time.Now()))
			_ = reg.All()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, reg.Len())
	total := 0
	for _, d := range reg.All() {
		total += d.DiscoveryCount
	}
	assert.Equal(t, 50, total)
}

func TestRegistry_DebouncedSaveCoalescesBursts(t *testing.T) {
	store := &memStore{}
	reg := registry.New(logging.Discard(),
		registry.WithStore(store),
		registry.WithSaveDebounce(30*time.Millisecond))

	for i := 1; i <= 20; i++ {
		reg.AddOrUpdate(online(fmt.Sprintf("10.0.0.%d", i), time.Now()))
	}

	require.Eventually(t, func() bool { return store.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, store.count())
	assert.Len(t, store.last().Devices, 20)
	assert.False(t, store.last().LastUpdated.IsZero())
}

func TestRegistry_SteadyMutationsStillSave(t *testing.T) {
	store := &memStore{}
	reg := registry.New(logging.Discard(),
		registry.WithStore(store),
		registry.WithSaveDebounce(40*time.Millisecond))

	// Mutations arrive faster than the debounce window for well over the
	// maximum wait, so only the max-wait bound can trigger a save.
	deadline := time.Now().Add(400 * time.Millisecond)
	for i := 1; time.Now().Before(deadline); i++ {
		reg.AddOrUpdate(online(fmt.Sprintf("10.0.%d.%d", i/250, i%250+1), time.Now()))
		time.Sleep(10 * time.Millisecond)
	}

	assert.GreaterOrEqual(t, store.count(), 1, "saves must not wait for the stream to stop")
	require.NoError(t, reg.Close(context.Background()))
}

func TestRegistry_LoadForcesOffline(t *testing.T) {
	now := time.Now()
	store := &memStore{load: &registry.Snapshot{
		LastUpdated: now,
		Devices: []device.Device{
			online("10.0.0.2", now),
			online("10.0.0.1", now),
		},
	}}
	reg := registry.New(logging.Discard(), registry.WithStore(store))

	var notified []device.Device
	reg.Subscribe(func(list []device.Device) { notified = list })

	n, err := reg.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, d := range reg.All() {
		assert.False(t, d.Online, d.Address)
	}
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, addresses(notified))
	assert.Zero(t, store.count(), "loading does not write back")
}

func TestRegistry_LoadWithoutSnapshot(t *testing.T) {
	reg := registry.New(logging.Discard(), registry.WithStore(&memStore{}))
	n, err := reg.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, reg.Len())
}

func TestRegistry_FlushRetriesTransientFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Name().Return("mock").AnyTimes()

	transient := lwerrors.WrapPersistenceError(lwerrors.CodePersistenceFailed, "save", errors.New("connection reset"))
	gomock.InOrder(
		store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(transient),
		store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(transient),
		store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
	)

	reg := registry.New(logging.Discard(), registry.WithStore(store), registry.WithSaveDebounce(time.Hour))
	reg.AddOrUpdate(online("10.0.0.1", time.Now()))

	require.NoError(t, reg.Flush(context.Background()))
}

func TestRegistry_FlushStopsOnFatalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Name().Return("mock").AnyTimes()

	fatal := lwerrors.WrapPersistenceError(lwerrors.CodeSnapshotCorrupt, "encode", errors.New("bad data"))
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(fatal).Times(1)

	reg := registry.New(logging.Discard(), registry.WithStore(store))
	err := reg.Flush(context.Background())

	require.Error(t, err)
	assert.True(t, lwerrors.IsCode(err, lwerrors.CodeSnapshotCorrupt))
}

func TestRegistry_CloseFlushesAndStopsScheduling(t *testing.T) {
	store := &memStore{}
	reg := registry.New(logging.Discard(),
		registry.WithStore(store),
		registry.WithSaveDebounce(200*time.Millisecond))

	reg.AddOrUpdate(online("10.0.0.1", time.Now()))
	require.NoError(t, reg.Close(context.Background()))
	assert.Equal(t, 1, store.count())

	reg.AddOrUpdate(online("10.0.0.2", time.Now()))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, store.count())
}

func TestRegistry_MemoryOnly(t *testing.T) {
	reg := registry.New(logging.Discard())
	reg.AddOrUpdate(online("10.0.0.1", time.Now()))

	n, err := reg.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, reg.Flush(context.Background()))
	assert.Equal(t, 1, reg.Len())
}
