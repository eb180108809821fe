package usecases_test

import (
	"context"
	"errors"
	"time"

	"disp32x8-server/internal/display/domain"
	"disp32x8-server/internal/display/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Driver", func() {
	const (
		indoor  domain.SensorID = 101
		outdoor domain.SensorID = 102
		rain    domain.SensorID = 103
	)

	var (
		ctx     context.Context
		now     time.Time
		board   *recordingBoard
		sensors staticSensors
		driver  *usecases.Driver
		config  usecases.DriverConfig
	)

	device := domain.Device{
		ID:              132,
		Name:            "salon",
		Address:         "127.0.0.1",
		Port:            8888,
		TempIntSensorID: indoor,
		TempExtSensorID: outdoor,
		RainSensorID:    rain,
	}

	minute := time.Date(2024, 3, 10, 14, 27, 0, 0, time.Local)

	at := func(second int) time.Time {
		return minute.Add(time.Duration(second) * time.Second)
	}

	runMinute := func() {
		for second := 0; second < 60; second++ {
			now = at(second)
			driver.Tick(ctx, now)
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		now = minute
		board = newRecordingBoard(func() int { return now.Second() })
		sensors = staticSensors{indoor: "21.3", outdoor: "8.5", rain: "0.0"}
		config = usecases.DriverConfig{Offset: 3, PollInterval: 10 * time.Millisecond}
	})

	JustBeforeEach(func() {
		driver = usecases.NewDriver(device, board, sensors, config)
		driver.SetClock(func() time.Time { return now })
	})

	Context("periodic schedule", func() {
		When("there is no rain", func() {
			It("renders temperatures at 3 and 6 and the clock right after the rain check", func() {
				runMinute()

				Expect(board.Writes()).To(Equal([]write{
					{Second: 3, Payload: "21.3° #\n"},
					{Second: 6, Payload: "8.5° #\n"},
					{Second: 9, Payload: "14:27#\n"},
				}))
			})
		})

		When("it rained", func() {
			BeforeEach(func() {
				sensors[rain] = "2.5"
			})

			It("shows the rain at 9 and delays the clock to 12", func() {
				runMinute()

				Expect(board.Writes()).To(Equal([]write{
					{Second: 3, Payload: "21.3° #\n"},
					{Second: 6, Payload: "8.5° #\n"},
					{Second: 9, Payload: "2.5M #\n"},
					{Second: 12, Payload: "14:27#\n"},
				}))
			})

			It("goes back to the short schedule once the rain stops", func() {
				runMinute()
				sensors[rain] = "0.0"

				nextMinute := minute.Add(time.Minute)
				for second := 0; second < 60; second++ {
					now = nextMinute.Add(time.Duration(second) * time.Second)
					driver.Tick(ctx, now)
				}

				Expect(board.Writes()[4:]).To(Equal([]write{
					{Second: 3, Payload: "21.3° #\n"},
					{Second: 6, Payload: "8.5° #\n"},
					{Second: 9, Payload: "14:28#\n"},
				}))
			})
		})

		When("sensors are unavailable", func() {
			BeforeEach(func() {
				sensors = staticSensors{}
			})

			It("uses the temperature placeholder and skips the rain", func() {
				runMinute()

				Expect(board.Payloads()).To(Equal([]string{
					"--.-° #\n",
					"--.-° #\n",
					"14:27#\n",
				}))
			})
		})

		When("the offset is changed", func() {
			BeforeEach(func() {
				config.Offset = 5
				sensors[rain] = "1.0"
			})

			It("follows the new cadence", func() {
				runMinute()

				seconds := []int{}
				for _, w := range board.Writes() {
					seconds = append(seconds, w.Second)
				}
				Expect(seconds).To(Equal([]int{5, 10, 15, 20}))
			})
		})

		It("acts once per second", func() {
			now = at(3)
			driver.Tick(ctx, now)
			driver.Tick(ctx, now)
			driver.Tick(ctx, now.Add(500*time.Millisecond))

			Expect(board.Payloads()).To(Equal([]string{"21.3° #\n"}))
		})

		It("acts on the first tick even at second zero", func() {
			now = at(0)
			driver.Post("Hi%\n")
			driver.Tick(ctx, now)

			Expect(board.Payloads()).To(Equal([]string{"Hi%\n", "14:27#\n"}))
		})
	})

	Context("pending message", func() {
		It("writes the message then re-renders the clock", func() {
			driver.Post("Hello#\n")

			now = at(20)
			driver.Tick(ctx, now)
			now = at(21)
			driver.Tick(ctx, now)

			Expect(board.Writes()).To(Equal([]write{
				{Second: 20, Payload: "Hello#\n"},
				{Second: 20, Payload: "14:27#\n"},
			}))
		})

		It("keeps only the last message posted before a flush", func() {
			Expect(driver.Post("First%\n")).To(BeFalse())
			Expect(driver.Post("Second%\n")).To(BeTrue())

			now = at(30)
			driver.Tick(ctx, now)

			Expect(board.Payloads()).To(Equal([]string{"Second%\n", "14:27#\n"}))
		})

		It("flushes after the periodic clock when both land on the same second", func() {
			driver.Post("Hello#\n")

			now = at(9)
			driver.Tick(ctx, now)

			Expect(board.Payloads()).To(Equal([]string{"14:27#\n", "Hello#\n", "14:27#\n"}))
		})
	})

	Context("board faults", func() {
		When("the board never acknowledges", func() {
			BeforeEach(func() {
				board.status = domain.AckTimeout
			})

			It("keeps the cadence", func() {
				runMinute()

				Expect(board.Writes()).To(Equal([]write{
					{Second: 3, Payload: "21.3° #\n"},
					{Second: 6, Payload: "8.5° #\n"},
					{Second: 9, Payload: "14:27#\n"},
				}))
			})
		})

		When("the board answers without ack", func() {
			BeforeEach(func() {
				board.status = domain.AckRejected
			})

			It("keeps the cadence", func() {
				runMinute()

				Expect(board.Writes()).To(HaveLen(3))
			})
		})

		When("sending fails", func() {
			BeforeEach(func() {
				board.status = ""
				board.err = errors.New("network is unreachable")
			})

			It("keeps the cadence and still flushes messages", func() {
				driver.Post("Hello#\n")
				runMinute()

				Expect(board.Payloads()).To(ContainElements("Hello#\n", "21.3° #\n", "8.5° #\n"))
			})
		})
	})

	Context("Run", func() {
		It("stops on cancellation and closes the session", func() {
			runCtx, cancel := context.WithCancel(ctx)
			done := make(chan struct{})
			driver.SetClock(time.Now)

			go driver.Run(runCtx, func() { close(done) })
			cancel()

			Eventually(done).Should(BeClosed())
			Expect(board.Closed()).To(BeTrue())
		})

		It("delivers a posted message from the loop", func() {
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			done := make(chan struct{})
			driver.SetClock(time.Now)

			go driver.Run(runCtx, func() { close(done) })
			driver.Post("Bonjour%\n")

			Eventually(board.Payloads, 3*time.Second).Should(ContainElement("Bonjour%\n"))
			cancel()
			Eventually(done).Should(BeClosed())
		})
	})
})

var _ = Describe("DriverConfig", func() {
	It("accepts the defaults", func() {
		Expect(usecases.DefaultDriverConfig().Validate()).To(Succeed())
	})

	It("rejects a poll interval of one second or more", func() {
		config := usecases.DefaultDriverConfig()
		config.PollInterval = time.Second

		Expect(config.Validate()).To(MatchError(usecases.ErrInvalidDriverConfig))
	})

	It("rejects offsets that push the clock past the minute", func() {
		config := usecases.DefaultDriverConfig()
		config.Offset = 15

		Expect(config.Validate()).To(MatchError(usecases.ErrInvalidDriverConfig))
	})

	It("rejects a zero offset", func() {
		config := usecases.DefaultDriverConfig()
		config.Offset = 0

		Expect(config.Validate()).To(MatchError(usecases.ErrInvalidDriverConfig))
	})
})

var _ = Describe("Mailbox", func() {
	It("is empty at first", func() {
		var mailbox usecases.Mailbox

		_, ok := mailbox.Take()
		Expect(ok).To(BeFalse())
	})

	It("clears the slot on take", func() {
		var mailbox usecases.Mailbox
		mailbox.Put("Hello#\n")

		payload, ok := mailbox.Take()
		Expect(ok).To(BeTrue())
		Expect(payload).To(Equal("Hello#\n"))

		_, ok = mailbox.Take()
		Expect(ok).To(BeFalse())
	})
})
