package board_test

import (
	"context"
	"net"
	"time"

	"disp32x8-server/internal/display/board"
	"disp32x8-server/internal/display/domain"
	"disp32x8-server/internal/display/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// answer is what the fake board sends back for one datagram. An empty
// reply keeps the board silent.
type answer struct {
	reply string
	delay time.Duration
}

// fakeBoard answers the n-th datagram with script[n], or with the last
// entry once the script runs out.
type fakeBoard struct {
	conn     net.PacketConn
	received chan string
}

func newFakeBoard(script ...answer) *fakeBoard {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())

	fb := &fakeBoard{conn: conn, received: make(chan string, 10)}
	go func() {
		buf := make([]byte, 1024)
		for n := 0; ; n++ {
			size, addr, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}
			fb.received <- string(buf[:size])

			a := answer{}
			if len(script) > 0 {
				a = script[min(n, len(script)-1)]
			}
			if a.reply == "" {
				continue
			}
			go func(a answer) {
				time.Sleep(a.delay)
				conn.WriteTo([]byte(a.reply), addr)
			}(a)
		}
	}()
	return fb
}

func (f *fakeBoard) device() domain.Device {
	addr := f.conn.LocalAddr().(*net.UDPAddr)
	return domain.Device{ID: 132, Name: "salon", Address: "127.0.0.1", Port: addr.Port}
}

var _ = Describe("Session", func() {
	var (
		fake    *fakeBoard
		session usecases.Board
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if session != nil {
			session.Close()
		}
		fake.conn.Close()
	})

	When("the board acknowledges", func() {
		BeforeEach(func() {
			fake = newFakeBoard(answer{reply: "Ack\n"})
			var err error
			session, err = board.NewDialer(time.Second).Dial(fake.device())
			Expect(err).NotTo(HaveOccurred())
		})

		It("sends the payload verbatim and reports the ack", func() {
			status, err := session.Write(ctx, "Hello#\n")

			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(domain.AckReceived))
			Eventually(fake.received).Should(Receive(Equal("Hello#\n")))
		})

		It("keeps working across several writes", func() {
			for _, payload := range []string{"21.3° #\n", "12:05#\n"} {
				status, err := session.Write(ctx, payload)
				Expect(err).NotTo(HaveOccurred())
				Expect(status).To(Equal(domain.AckReceived))
			}
		})
	})

	When("the board answers something else", func() {
		BeforeEach(func() {
			fake = newFakeBoard(answer{reply: "Err"})
			var err error
			session, err = board.NewDialer(time.Second).Dial(fake.device())
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports a rejected ack", func() {
			status, err := session.Write(ctx, "Hello#\n")

			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(domain.AckRejected))
		})
	})

	When("the board never answers", func() {
		BeforeEach(func() {
			fake = newFakeBoard()
			var err error
			session, err = board.NewDialer(500 * time.Millisecond).Dial(fake.device())
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports a timeout without error", func() {
			status, err := session.Write(ctx, "Hello#\n")

			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(domain.AckTimeout))
		})

		It("honours a shorter context deadline", func() {
			shortCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()

			started := time.Now()
			status, err := session.Write(shortCtx, "Hello#\n")

			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(domain.AckTimeout))
			Expect(time.Since(started)).To(BeNumerically("<", 400*time.Millisecond))
		})
	})

	When("an ack arrives after its write timed out", func() {
		BeforeEach(func() {
			fake = newFakeBoard(
				answer{reply: "Ack\n", delay: 300 * time.Millisecond},
				answer{},
				answer{reply: "Ack\n"},
			)
			var err error
			session, err = board.NewDialer(200 * time.Millisecond).Dial(fake.device())
			Expect(err).NotTo(HaveOccurred())
		})

		It("does not credit it to the next write", func() {
			first, err := session.Write(ctx, "21.3° #\n")
			Expect(err).NotTo(HaveOccurred())
			second, err := session.Write(ctx, "8.5° #\n")
			Expect(err).NotTo(HaveOccurred())
			third, err := session.Write(ctx, "12:05#\n")
			Expect(err).NotTo(HaveOccurred())

			Expect([]domain.AckStatus{first, second, third}).To(Equal([]domain.AckStatus{
				domain.AckTimeout,
				domain.AckTimeout,
				domain.AckReceived,
			}))
		})
	})

	When("a late ack is already queued before the next write", func() {
		BeforeEach(func() {
			fake = newFakeBoard(
				answer{reply: "Ack\n", delay: 150 * time.Millisecond},
				answer{},
			)
			var err error
			session, err = board.NewDialer(100 * time.Millisecond).Dial(fake.device())
			Expect(err).NotTo(HaveOccurred())
		})

		It("discards it before sending", func() {
			first, err := session.Write(ctx, "21.3° #\n")
			Expect(err).NotTo(HaveOccurred())
			time.Sleep(150 * time.Millisecond)
			second, err := session.Write(ctx, "8.5° #\n")
			Expect(err).NotTo(HaveOccurred())

			Expect(first).To(Equal(domain.AckTimeout))
			Expect(second).To(Equal(domain.AckTimeout))
		})
	})

	When("one reply is lost", func() {
		BeforeEach(func() {
			fake = newFakeBoard(
				answer{},
				answer{reply: "Ack\n"},
			)
			var err error
			session, err = board.NewDialer(100 * time.Millisecond).Dial(fake.device())
			Expect(err).NotTo(HaveOccurred())
		})

		It("recovers after a single misreported write", func() {
			statuses := []domain.AckStatus{}
			for _, payload := range []string{"21.3° #\n", "8.5° #\n", "12:05#\n", "12:06#\n"} {
				status, err := session.Write(ctx, payload)
				Expect(err).NotTo(HaveOccurred())
				statuses = append(statuses, status)
			}

			Expect(statuses).To(Equal([]domain.AckStatus{
				domain.AckTimeout,
				domain.AckTimeout,
				domain.AckReceived,
				domain.AckReceived,
			}))
		})
	})

	When("another host sends an ack", func() {
		var intruder net.PacketConn

		BeforeEach(func() {
			fake = newFakeBoard()
			var err error
			session, err = board.NewDialer(300 * time.Millisecond).Dial(fake.device())
			Expect(err).NotTo(HaveOccurred())

			intruder, err = net.ListenPacket("udp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			intruder.Close()
		})

		It("ignores it", func() {
			target := session.(*board.Session).LocalAddr()
			go func() {
				defer GinkgoRecover()
				time.Sleep(50 * time.Millisecond)
				_, err := intruder.WriteTo([]byte("Ack\n"), target)
				Expect(err).NotTo(HaveOccurred())
			}()

			status, err := session.Write(ctx, "Hello#\n")

			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(domain.AckTimeout))
		})
	})

	When("the board address cannot be resolved", func() {
		BeforeEach(func() {
			fake = newFakeBoard()
			session = nil
		})

		It("returns an error", func() {
			_, err := board.NewDialer(time.Second).Dial(domain.Device{Address: "127.0.0.1", Port: -1})

			Expect(err).To(HaveOccurred())
		})
	})
})
